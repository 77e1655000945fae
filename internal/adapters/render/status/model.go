package status

import (
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lingodeck/lingodeck/internal/application"
	"github.com/lingodeck/lingodeck/internal/domain"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

type model struct {
	records []domain.SessionRecord
	cache   *application.LessonCacheStatus
	opts    RenderOptions
	styles  styles
	output  string
}

func newModel(records []domain.SessionRecord, cache *application.LessonCacheStatus, opts RenderOptions) model {
	return model{
		records: records,
		cache:   cache,
		opts:    opts,
		styles:  newStyles(),
	}
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		m.output = renderView(m.records, m.cache, m.opts, m.styles)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return m.output
}

// Render produces the one-shot status view for the CLI. The cache summary
// is optional.
func Render(records []domain.SessionRecord, cache *application.LessonCacheStatus, opts RenderOptions) (string, error) {
	p := tea.NewProgram(
		newModel(records, cache, opts),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}
