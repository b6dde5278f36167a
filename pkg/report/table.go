package report

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mash-protocol/unbox-go/pkg/discovery"
)

// Networks renders scan results as a table. Matching networks are marked
// in the first column.
func Networks(networks []discovery.Network, pattern string) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	rows := make([][]string, 0, len(networks))
	matched := make(map[int]bool, len(networks))
	for i, n := range networks {
		mark := ""
		if ok, _ := discovery.Match(pattern, n.SSID); ok {
			mark = "●"
			matched[i] = true
		}
		security := n.Security
		if security == "" {
			security = "open"
		}
		rows = append(rows, []string{mark, n.SSID, strconv.Itoa(n.Signal), security})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case matched[row]:
				return cellStyle.Foreground(colorGreen)
			default:
				return cellStyle.Foreground(colorDim)
			}
		}).
		Headers("", "SSID", "SIGNAL", "SECURITY").
		Rows(rows...)

	return t.String()
}
