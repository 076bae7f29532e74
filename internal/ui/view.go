package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"vidfit/internal/progress"
	"vidfit/internal/util/format"
)

func (m Model) viewHeader() string {
	title := m.styles.Title.Render("vidfit")
	sub := m.styles.Subtitle.Render(fmt.Sprintf("%s → %s • target %s • q: quit",
		filepath.Base(m.req.InputPath), filepath.Base(m.req.OutputPath), m.req.TargetSize))
	return title + "\n" + sub
}

func (m Model) viewJob() string {
	stageStyle := m.styles.JobInfo
	switch m.stage {
	case progress.StageProbing:
		stageStyle = m.styles.StageProb
	case progress.StagePlanning:
		stageStyle = m.styles.StagePlan
	case progress.StageEncoding:
		stageStyle = m.styles.StageEnc
	case progress.StageCompleted:
		stageStyle = m.styles.Success
	case progress.StageError:
		stageStyle = m.styles.Error
	}

	left := m.styles.JobTitle.Render(truncate(m.req.InputPath, 48))
	line1 := fmt.Sprintf("%s  %s", left, stageStyle.Render(string(m.stage)))

	var line2 string
	switch {
	case m.stage == progress.StageError:
		line2 = m.styles.Error.Render("✗ error")
	case m.stage == progress.StageCompleted:
		line2 = m.styles.Success.Render("✓ done")
	case m.percent >= 0 && m.percent <= 100:
		line2 = fmt.Sprintf("%s %5.1f%%", m.bar.ViewAs(m.percent/100.0), m.percent)
		if m.bytes > 0 {
			line2 += "  " + format.HumanizeBytes(m.bytes)
		}
		if m.speed != "" {
			line2 += "  " + m.speed
		}
	default:
		line2 = m.styles.Spinner.Render(m.spinner.View()) + " " + m.styles.Faint.Render("working")
	}

	parts := []string{line1, line2, m.styles.JobInfo.Render(m.status)}
	for _, l := range m.logs {
		parts = append(parts, m.styles.Faint.Render(truncate(l, 72)))
	}
	return m.styles.Box.Render(strings.Join(parts, "\n"))
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if n <= 0 || len(rs) <= n {
		return s
	}
	return string(rs[:n-1]) + "…"
}
