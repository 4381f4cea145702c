package ui

import (
	"strings"
	"time"

	"taskapp/internal/core/model/response"
)

const dueDisplayLayout = "Mon Jan 2 2006 15:04"

func statusBadge(task response.TaskResponse) string {
	if task.IsCompleted {
		return doneBadge.Render("Completed")
	}
	return openBadge.Render("Open")
}

func renderCard(task response.TaskResponse, selected bool, loc *time.Location) string {
	var b strings.Builder

	b.WriteString(headingStyle.Render(task.Title) + "  " + statusBadge(task))

	if desc, ok := task.Description.Get(); ok && desc != "" {
		b.WriteString("\n" + desc)
	}
	if due, ok := task.DueDate.Get(); ok {
		b.WriteString("\n" + helpStyle.Render("Due: ") + due.In(loc).Format(dueDisplayLayout))
	}

	if selected {
		return selectedCardStyle.Render(b.String())
	}
	return boxStyle.Render(b.String())
}

func renderList(tasks []response.TaskResponse, cursor int, loc *time.Location) string {
	cards := make([]string, 0, len(tasks))
	for i, task := range tasks {
		cards = append(cards, renderCard(task, i == cursor, loc))
	}
	return strings.Join(cards, "\n")
}
