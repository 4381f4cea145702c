package ui

import (
	"fmt"
	"strings"

	"taskapp/internal/core/model/response"
)

type confirmDialog struct {
	open bool
	task response.TaskResponse
}

func (d confirmDialog) view(deleting bool) string {
	var b strings.Builder

	b.WriteString(headingStyle.Render("Delete task") + "\n\n")
	b.WriteString(fmt.Sprintf("Delete %q?\n\n", d.task.Title))

	if deleting {
		b.WriteString(disabledStyle.Render("Deleting..."))
	} else {
		b.WriteString(buttonStyle.Render("y Delete"))
	}
	b.WriteString("  " + helpStyle.Render("n/esc Cancel"))

	return dangerBoxStyle.Render(b.String())
}
