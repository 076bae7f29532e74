package cmd

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"vidfit/internal/pipeline"
	"vidfit/internal/util"
	"vidfit/internal/util/bitrate"
	"vidfit/internal/util/format"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range r {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

func printPlan(w io.Writer, pl pipeline.Plan) {
	rows := [][]string{
		{"Input", pl.Request.InputPath},
		{"Output", pl.Request.OutputPath},
		{"Duration", fmt.Sprintf("%.2f s (%s)", pl.Params.DurationSec, format.Clock(pl.Params.DurationSec))},
		{"Target size", pl.Request.TargetSize.String()},
		{"Video bitrate", fmt.Sprintf("%s (%d bps, %s)", pl.VideoBitrate(), pl.VideoBps, format.HumanizeBitrate(pl.VideoBps))},
		{"Audio bitrate", bitrate.FormatKbps(pl.Params.AudioBps)},
		{"Estimated size", format.HumanizeBytes(pl.EstimatedSize)},
	}
	if pl.VideoBps == bitrate.MinVideoBps {
		rows = append(rows, []string{"Note", "video bitrate clamped to the 100k floor; output may exceed the target"})
	}
	fmt.Fprintln(w, renderTable([]string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignLeft}))
	if len(pl.FFmpegArgs) > 0 {
		fmt.Fprintf(w, "Command: %s\n", util.ShellQuote("ffmpeg", pl.FFmpegArgs))
	}
}
