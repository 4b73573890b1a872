package service

import (
	"fmt"
	"strings"

	"github.com/zfogg/otakulist/pkg/api"
	"github.com/zfogg/otakulist/pkg/output"
)

func renderList(list *api.CustomList, items []api.ListItem) error {
	switch output.GetOutputFormat() {
	case output.FormatJSON:
		shown := *list
		shown.Items = items
		return output.PrintJSON(shown)
	case output.FormatTable:
		rows := make([][]string, len(items))
		for i, it := range items {
			rows[i] = []string{fmt.Sprintf("%d", i+1), it.MediaType, it.Title, it.ID}
		}
		output.PrintTable([]string{"#", "Type", "Title", "Item ID"}, rows)
		return nil
	}

	output.Printf("\n%s\n", list.Name)
	output.Printf("%s\n", strings.Repeat("─", 60))
	if list.Description != "" {
		output.Printf("%s\n", list.Description)
	}
	output.Printf("%s · %d item%s · %d follower%s\n",
		visibility(list.IsPublic),
		len(items), pluralize(len(items)),
		list.FollowerCount, pluralize(list.FollowerCount))
	output.Printf("%s\n", strings.Repeat("─", 60))
	renderItems(items)
	return nil
}

func renderItems(items []api.ListItem) {
	if len(items) == 0 {
		output.Printf("No entries yet. Add one with `list add`.\n")
		return
	}
	for i, it := range items {
		output.Printf("%2d. [%s] %s\n", i+1, it.MediaType, truncate(it.Title, 50))
		if it.Notes != "" {
			output.Printf("    %s\n", truncate(it.Notes, 56))
		}
	}
}

func renderLists(resp *api.ListsResponse) error {
	switch output.GetOutputFormat() {
	case output.FormatJSON:
		return output.PrintJSON(resp)
	case output.FormatTable:
		rows := make([][]string, len(resp.Lists))
		for i, l := range resp.Lists {
			rows[i] = []string{l.ID, l.Name, fmt.Sprintf("%d", l.ItemCount), visibility(l.IsPublic)}
		}
		output.PrintTable([]string{"ID", "Name", "Items", "Visibility"}, rows)
		return nil
	}

	output.Printf("\nYour Lists (Page %d)\n", resp.Page)
	output.Printf("%s\n", strings.Repeat("─", 60))
	for i, l := range resp.Lists {
		output.Printf("%2d. %s  (%s)\n", i+1, l.Name, l.ID)
		output.Printf("    %d item%s | %s\n", l.ItemCount, pluralize(l.ItemCount), visibility(l.IsPublic))
	}
	output.Printf("\nShowing %d of %d lists\n", len(resp.Lists), resp.TotalCount)
	return nil
}

func visibility(isPublic bool) string {
	if isPublic {
		return "public"
	}
	return "private"
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
