package ioprisons

import (
	"os"

	"github.com/gocarina/gocsv"

	"github.com/custodymetrics/custodypanel/pkg/prison"
)

// prisonRow is the CSV shape of one prison classification period.
type prisonRow struct {
	Prison                string `csv:"Prison"`
	Start                 string `csv:"Start"`
	End                   string `csv:"End"`
	A                     bool   `csv:"A"`
	B                     bool   `csv:"B"`
	C                     bool   `csv:"C"`
	D                     bool   `csv:"D"`
	YOI                   bool   `csv:"YOI"`
	Male                  bool   `csv:"Male"`
	Female                bool   `csv:"Female"`
	Mixed                 bool   `csv:"Mixed"`
	FemaleOpen            bool   `csv:"Female_open"`
	FemaleClosed          bool   `csv:"Female_closed"`
	HighestCategoryMale   string `csv:"Highest_category"`
	HighestCategoryFemale string `csv:"Highest_category_female"`
	Group                 string `csv:"Prison_type"`
	Notes                 string `csv:"Notes"`
}

// WritePrisonsCSV writes the built prison table, one row per
// classification period, months in the registry's MM-YYYY format.
func WritePrisonsCSV(path string, records []prison.Record) error {
	out := make([]*prisonRow, len(records))
	for i := range records {
		r := &records[i]
		out[i] = &prisonRow{
			Prison:                r.Name,
			Start:                 r.Start.String(),
			End:                   r.End.String(),
			A:                     r.A,
			B:                     r.B,
			C:                     r.C,
			D:                     r.D,
			YOI:                   r.YOI,
			Male:                  r.Male,
			Female:                r.Female,
			Mixed:                 r.Mixed,
			FemaleOpen:            r.FemaleOpen,
			FemaleClosed:          r.FemaleClosed,
			HighestCategoryMale:   r.HighestCategoryMale,
			HighestCategoryFemale: r.HighestCategoryFemale,
			Group:                 r.GroupKey(),
			Notes:                 r.Notes,
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return RegistryWriteError(path, err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&out, f); err != nil {
		return RegistryWriteError(path, err)
	}
	return nil
}
