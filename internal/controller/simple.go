package controller

import (
	"bytes"
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	m "spvbuild.dev/pkg/spvbuild/internal/model"
)

// ANSI 92 and 91, the bright variants.
const (
	successColor = lipgloss.Color("10")
	failureColor = lipgloss.Color("9")
)

// SimpleUI implements UI using the cobra command's output stream.
type SimpleUI struct {
	cmd    *cobra.Command
	colors func() bool
}

// NewUI creates the UI used by the CLI. colors is consulted on every
// styled message, so it may depend on flags parsed after construction.
func NewUI(cmd *cobra.Command, colors func() bool) UI {
	return NewSimpleUI(cmd, colors)
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command, colors func() bool) *SimpleUI {
	if colors == nil {
		colors = func() bool { return false }
	}

	return &SimpleUI{cmd: cmd, colors: colors}
}

// DisplayHeader prints a plain informational line.
func (s *SimpleUI) DisplayHeader(ctx context.Context, message string) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s\n", message)
}

// DisplayCandidate prints the candidate's name in double quotes.
func (s *SimpleUI) DisplayCandidate(ctx context.Context, candidate m.Candidate) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("\"%s\"\n", candidate.Name)
}

// Success prints message in green. It is shown even when ctx is done so the
// final outcome is never lost.
func (s *SimpleUI) Success(_ context.Context, message string) {
	s.printf("%s\n", s.style(successColor).Render(message))
}

// Failure prints message in red. It is shown even when ctx is done.
func (s *SimpleUI) Failure(_ context.Context, message string) {
	s.printf("%s\n", s.style(failureColor).Render(message))
}

// DisplayPlan prints the artifacts a build would produce.
func (s *SimpleUI) DisplayPlan(ctx context.Context, artifacts []m.Artifact, format PlanFormat) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	switch format {
	case PlanYAML:
		out, err := renderPlanYAML(artifacts)
		if err != nil {
			return err
		}

		s.printf("%s", out)
	case PlanTable, "":
		s.printf("%s", renderPlanTable(artifacts))
	default:
		return fmt.Errorf("unknown plan format %q", format)
	}

	return nil
}

func (s *SimpleUI) style(color lipgloss.TerminalColor) lipgloss.Style {
	renderer := lipgloss.NewRenderer(s.cmd.OutOrStdout())
	if s.colors() {
		renderer.SetColorProfile(termenv.ANSI)
	} else {
		renderer.SetColorProfile(termenv.Ascii)
	}

	return renderer.NewStyle().Foreground(color)
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func renderPlanTable(artifacts []m.Artifact) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Shader", "Artifact"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})

	for _, artifact := range artifacts {
		table.Append([]string{artifact.Source.Name, string(artifact.Path)})
	}

	table.SetFooter([]string{fmt.Sprintf("Total Shaders %d", len(artifacts)), ""})
	table.Render()

	return tableBuffer.String()
}

type planDocument struct {
	Total   int         `yaml:"total"`
	Shaders []planEntry `yaml:"shaders"`
}

type planEntry struct {
	Source   string `yaml:"source"`
	Artifact string `yaml:"artifact"`
}

func renderPlanYAML(artifacts []m.Artifact) ([]byte, error) {
	doc := planDocument{
		Total:   len(artifacts),
		Shaders: make([]planEntry, 0, len(artifacts)),
	}

	for _, artifact := range artifacts {
		doc.Shaders = append(doc.Shaders, planEntry{
			Source:   artifact.Source.Name,
			Artifact: string(artifact.Path),
		})
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode plan: %w", err)
	}

	return out, nil
}
