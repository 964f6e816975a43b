package view

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/linecard/bpsync/pkg/convention/action"

	"github.com/charmbracelet/lipgloss"
	"github.com/golang-module/carbon/v2"
)

var (
	keyStyle  = lipgloss.NewStyle().Bold(true).Width(18)
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	skipStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	boxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

type OutputView struct {
	action.Output
}

func (o OutputView) Json() (string, error) {
	j, err := json.MarshalIndent(o.Output, "", "  ")
	return string(j), err
}

func (o OutputView) Render() string {
	rows := [][2]string{
		{"event", fmt.Sprintf("%s (%s)", o.Config.Event.Type, o.Config.Event.TopicId)},
		{"blueprint", o.Config.Blueprint.Name},
		{"custom property", o.Gates.CustomProperty.String()},
		{"blueprint option", o.Gates.BlueprintOption.String()},
	}

	if o.Sync != nil {
		rows = append(rows,
			[2]string{"operation", okStyle.Render(string(o.Sync.Operation))},
			[2]string{"path", o.Sync.Path},
			[2]string{"branch", o.Sync.Branch},
		)
		if o.Sync.Reason != "" {
			rows = append(rows, [2]string{"reason", skipStyle.Render(o.Sync.Reason)})
		}
	}

	if o.SkipReason != "" {
		rows = append(rows, [2]string{"skipped", skipStyle.Render(o.SkipReason)})
	}

	if o.CompletedAt != "" {
		rows = append(rows, [2]string{"completed", carbon.Parse(o.CompletedAt).DiffForHumans()})
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, keyStyle.Render(row[0]), row[1]))
	}

	return boxStyle.Render(strings.Join(lines, "\n"))
}
