package tui

import (
	"fmt"
	"strings"
)

func render(m Model) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("ffmpegjob") + " " + labelStyle.Render(m.contextName))
	b.WriteString("\n\n")

	if !m.haveEvent {
		b.WriteString(labelStyle.Render("waiting for progress..."))
	} else {
		row := func(label, value string) string {
			return fmt.Sprintf("%s %s", labelStyle.Render(label+":"), valueStyle.Render(value))
		}
		b.WriteString(row("frame", fmt.Sprintf("%d", m.latest.Frame)) + "   ")
		b.WriteString(row("fps", fmt.Sprintf("%.1f", m.latest.FPS)) + "   ")
		b.WriteString(row("speed", fmt.Sprintf("%.2fx", m.latest.Speed)) + "\n")
		if m.latest.DropFrames > 0 {
			b.WriteString(warningStyle.Render(fmt.Sprintf("drop_frames=%d", m.latest.DropFrames)) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(labelStyle.Render(fmt.Sprintf("elapsed %s", m.Elapsed().Round(1e8))))

	if m.done {
		b.WriteString("\n\n")
		if m.err != nil {
			b.WriteString(errorStyle.Render("failed: " + m.err.Error()))
		} else {
			b.WriteString(successStyle.Render("done"))
		}
	}

	return boxStyle.Render(b.String())
}
