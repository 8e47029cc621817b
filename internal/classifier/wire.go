package classifier

import (
	"strings"

	"github.com/todochat/todochat/internal/intent"
)

// wireAction mirrors the JSON contract in systemInstructions. One
// struct covers all shapes; normalize dispatches on Action.
type wireAction struct {
	Action      string     `json:"action"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Items       []wireItem `json:"items"`
	Filter      string     `json:"filter"`
	Priority    string     `json:"priority"`
	SortBy      string     `json:"sort_by"`
	SortDir     string     `json:"sort_dir"`
	IDs         []int      `json:"ids"`
	Ops         []wireOp   `json:"ops"`
	Completed   *bool      `json:"completed"`
	Query       string     `json:"query"`
	Question    string     `json:"question"`
}

type wireItem struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

type wireOp struct {
	ID          *int    `json:"id"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// normalize maps a model reply onto the same action union the rule
// parser emits, so the executor never needs to know which stage
// classified the message. Unrecognized shapes become Unknown.
func normalize(w wireAction) []intent.Action {
	switch strings.ToLower(w.Action) {
	case "add":
		desc := ""
		if w.Description != nil {
			desc = *w.Description
		}
		return []intent.Action{intent.Add{Title: w.Title, Description: desc}}

	case "add_many":
		var titles []string
		for _, it := range w.Items {
			if s := strings.TrimSpace(it.Title); s != "" {
				titles = append(titles, s)
			}
		}
		if len(titles) == 0 {
			return []intent.Action{intent.Clarify{Message: "What todos should I add?"}}
		}
		return []intent.Action{intent.AddMany{Items: titles}}

	case "list":
		return []intent.Action{intent.List{
			Filter:   filterOrAll(w.Filter),
			Priority: w.Priority,
			SortBy:   intent.SortBy(w.SortBy),
			SortDir:  intent.SortDir(w.SortDir),
		}}

	case "count":
		return []intent.Action{intent.Count{Filter: filterOrAll(w.Filter)}}

	case "summary":
		return []intent.Action{intent.Summary{}}

	case "details":
		nos := positiveInts(w.IDs)
		if len(nos) == 0 {
			return []intent.Action{intent.Clarify{Message: "Which todo number do you want details for?"}}
		}
		return []intent.Action{intent.Details{LocalNos: nos}}

	case "update":
		var acts []intent.Action
		for _, op := range w.Ops {
			if op.ID == nil {
				continue
			}
			acts = append(acts, intent.PatchMany{
				LocalNos:    []int{*op.ID},
				Title:       op.Title,
				Description: op.Description,
				Completed:   op.Completed,
			})
		}
		if len(acts) == 0 {
			return []intent.Action{intent.Clarify{Message: "Which todo do you want to update?"}}
		}
		return acts

	case "complete_all":
		completed := true
		if w.Completed != nil {
			completed = *w.Completed
		}
		return []intent.Action{intent.CompleteAll{Completed: completed}}

	case "delete":
		nos := positiveInts(w.IDs)
		if len(nos) == 0 {
			return []intent.Action{intent.Clarify{Message: "Which todo number do you want to delete?"}}
		}
		return []intent.Action{intent.DeleteMany{LocalNos: nos}}

	case "delete_all":
		return []intent.Action{intent.DeleteAll{}}

	case "delete_filtered":
		f := intent.Filter(w.Filter)
		if f == "" {
			f = intent.FilterCompleted
		}
		return []intent.Action{intent.DeleteFiltered{Filter: f}}

	case "search":
		return []intent.Action{intent.Search{Query: w.Query}}

	case "clarify":
		msg := w.Question
		if msg == "" {
			msg = "Can you clarify what you want to do?"
		}
		return []intent.Action{intent.Clarify{Message: msg}}
	}

	return []intent.Action{intent.Unknown{}}
}

func filterOrAll(s string) intent.Filter {
	if s == "" {
		return intent.FilterAll
	}
	return intent.Filter(s)
}

func positiveInts(ids []int) []int {
	var out []int
	for _, n := range ids {
		if n > 0 {
			out = append(out, n)
		}
	}
	return out
}
