package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/iplot/internal/frames"
)

type FrameSummary struct {
	Index   int     `json:"index"`
	File    string  `json:"file"`
	Frame   int     `json:"frame"`
	Time    float64 `json:"time"`
	Dim     int     `json:"dim"`
	Patches int     `json:"patches"`
	Levels  int     `json:"levels"`
	Meqn    int     `json:"meqn"`
}

type Summary struct {
	Outdir string         `json:"outdir"`
	Count  int            `json:"count"`
	Frames []FrameSummary `json:"frames"`
}

// Summarize describes loaded frames of src in index order.
func Summarize(src *frames.Source, loaded []*frames.Frame) Summary {
	sum := Summary{Outdir: src.Dir(), Count: src.Count(), Frames: make([]FrameSummary, 0, len(loaded))}
	for _, fr := range loaded {
		fs := FrameSummary{
			Index:   fr.Index,
			File:    src.Name(fr.Index),
			Frame:   fr.Number,
			Time:    fr.Time,
			Dim:     fr.Dim(),
			Patches: len(fr.Patches),
		}
		for _, p := range fr.Patches {
			fs.Levels = max(fs.Levels, p.Level)
			fs.Meqn = max(fs.Meqn, p.Meqn)
		}
		sum.Frames = append(sum.Frames, fs)
	}
	return sum
}

func WriteSummary(w io.Writer, sum Summary) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(sum)
}

func WriteSummaryFile(path string, sum Summary) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteSummary(file, sum); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
