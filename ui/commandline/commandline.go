// Copyright 2023 The pymc3-go Authors. SPDX-License-Identifier: Apache-2.0

// Package commandline renders sampling results on the command line: a summary
// table of the posterior with one row per sampled coordinate.
package commandline

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spiyer99/pymc3/sampling"
	"github.com/spiyer99/pymc3/types/xslices"
	"gonum.org/v1/gonum/stat"
)

var tableBorderColor = "#705090"

// Summary writes a table summarizing the posterior samples in idata: mean,
// standard deviation and the central 94% interval of each sampled coordinate.
func Summary(w io.Writer, idata *sampling.InferenceData) error {
	if idata == nil || len(idata.Posterior) == 0 {
		return fmt.Errorf("the inference data holds no posterior samples")
	}

	table := lgtable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(tableBorderColor))).
		Headers("variable", "mean", "sd", "hdi_3%", "hdi_97%")
	for _, name := range xslices.SortedKeys(idata.Posterior) {
		tensor := idata.Posterior[name]
		flat := tensor.ConvertToFloat64()
		samples := idata.Chains * idata.Draws
		size := len(flat) / samples
		for coord := 0; coord < size; coord++ {
			values := make([]float64, samples)
			for s := range values {
				values[s] = flat[s*size+coord]
			}
			sort.Float64s(values)
			label := name
			if size > 1 {
				label = fmt.Sprintf("%s[%d]", name, coord)
			}
			table.Row(label,
				fmt.Sprintf("%.3f", stat.Mean(values, nil)),
				fmt.Sprintf("%.3f", stat.StdDev(values, nil)),
				fmt.Sprintf("%.3f", stat.Quantile(0.03, stat.Empirical, values, nil)),
				fmt.Sprintf("%.3f", stat.Quantile(0.97, stat.Empirical, values, nil)))
		}
	}

	_, err := fmt.Fprintf(w, "Sampled %s draws on %s chains in %s\n%s\n",
		humanize.Comma(int64(idata.Draws)), humanize.Comma(int64(idata.Chains)),
		FormatDuration(idata.SamplingTime), table.Render())
	return err
}

// PrintSummary is Summary writing to stdout.
func PrintSummary(idata *sampling.InferenceData) error {
	return Summary(os.Stdout, idata)
}
