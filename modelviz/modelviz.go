// Package modelviz renders a model as a Graphviz (dot) graph: one node per
// random variable, data container and named deterministic, with edges
// following the expression dependencies.
package modelviz

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spiyer99/pymc3/distributions"
	"github.com/spiyer99/pymc3/model"
)

// Formatting values accepted by ModelToGraphviz.
const (
	FormattingPlain           = "plain"
	FormattingPlainWithParams = "plain_with_params"
)

// ModelToGraphviz renders the model as Graphviz dot source.
//
// With FormattingPlain each variable is labeled "name ~ Distribution"; with
// FormattingPlainWithParams the distribution parameters are included, e.g.
// "obs ~ Normal(mu=f(beta, x), sigma=0.1)". Any other formatting returns an
// error.
func ModelToGraphviz(m *model.Model, formatting string) (string, error) {
	if formatting != FormattingPlain && formatting != FormattingPlainWithParams {
		return "", errors.Errorf(
			"unsupported formatting %q: only %q and %q are supported",
			formatting, FormattingPlain, FormattingPlainWithParams)
	}

	var sb strings.Builder
	sb.WriteString("digraph {\n")
	for _, d := range m.DataContainers() {
		fmt.Fprintf(&sb, "\t%s [label=\"%s\\n~\\nData\" shape=box style=\"rounded, filled\"]\n",
			d.Name(), d.Name())
	}
	for _, rv := range m.FreeRVs() {
		fmt.Fprintf(&sb, "\t%s [label=\"%s\\n~\\n%s\"]\n",
			rv.Name(), rv.Name(), distLabel(rv.Dist(), formatting))
	}
	for _, rv := range m.ObservedRVs() {
		fmt.Fprintf(&sb, "\t%s [label=\"%s\\n~\\n%s\" style=filled]\n",
			rv.Name(), rv.Name(), distLabel(rv.Dist(), formatting))
	}
	for _, det := range m.Deterministics() {
		fmt.Fprintf(&sb, "\t%s [label=\"%s\\n~\\nDeterministic\" shape=box]\n",
			det.Name, det.Name)
	}

	known := knownNames(m)
	seen := make(map[string]bool)
	edge := func(from, to string) {
		if from == to || !known[from] {
			return
		}
		key := from + "->" + to
		if seen[key] {
			return
		}
		seen[key] = true
		fmt.Fprintf(&sb, "\t%s -> %s\n", from, to)
	}

	for _, rvs := range [][]*model.RV{m.FreeRVs(), m.ObservedRVs()} {
		for _, rv := range rvs {
			for _, param := range rv.Dist().Params() {
				for _, leaf := range param.Node.Leaves() {
					edge(leaf.Name(), rv.Name())
				}
			}
			if d := rv.ObservedData(); d != nil {
				edge(rv.Name(), d.Name())
			}
		}
	}
	for _, det := range m.Deterministics() {
		for _, leaf := range det.Node.Leaves() {
			edge(leaf.Name(), det.Name)
		}
	}

	sb.WriteString("}\n")
	return sb.String(), nil
}

// distLabel renders the distribution part of a variable label: the
// distribution name, with its parameters under FormattingPlainWithParams.
func distLabel(dist distributions.Distribution, formatting string) string {
	if formatting != FormattingPlainWithParams {
		return dist.Name()
	}
	params := dist.Params()
	parts := make([]string, len(params))
	for ii, param := range params {
		parts[ii] = fmt.Sprintf("%s=%s", param.Name, param.Node)
	}
	return fmt.Sprintf("%s(%s)", dist.Name(), strings.Join(parts, ", "))
}

func knownNames(m *model.Model) map[string]bool {
	known := make(map[string]bool)
	for _, d := range m.DataContainers() {
		known[d.Name()] = true
	}
	for _, rv := range m.FreeRVs() {
		known[rv.Name()] = true
	}
	for _, rv := range m.ObservedRVs() {
		known[rv.Name()] = true
	}
	for _, det := range m.Deterministics() {
		known[det.Name] = true
	}
	return known
}
