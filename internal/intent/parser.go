package intent

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	chainRe = regexp.MustCompile(`\b(?:and|then)\s+(?:show|list)\b`)

	statusByNumberRe  = regexp.MustCompile(`\b(?:todo|task)\s+(\d+)\s+is\s+(completed|done|finished|pending|incomplete|not done|undone)\b`)
	firstPersonDoneRe = regexp.MustCompile(`\b(?:i[' ]?ve|i have|i)\s+(?:completed|done with|finished)\s+(?:todo|task)\s+(\d+)\b`)
	showOneRe         = regexp.MustCompile(`\bshow\s+(?:todo|task)\s+(?:number\s+)?(\d+)\b`)
	showFirstNRe      = regexp.MustCompile(`\bshow\s+first\s+(\d+)\s+(?:todos|tasks)\b`)

	titleTailRe    = regexp.MustCompile(`(?i)title\s*(?:is|=|:)?\s*['"]?(.+?)['"]?\??$`)
	descTailRe     = regexp.MustCompile(`(?i)(?:desc|description|details)\s*(?:is|=|:)?\s*['"]?(.+?)['"]?\??$`)
	whichHasRe     = regexp.MustCompile(`(?i)which\s+(?:todo|task)\s+(?:has|contains|include|mentions)\s+['"]?(.+?)['"]?\??$`)
	findQueryRe    = regexp.MustCompile(`(?i)(?:find|search)\s+(?:todos?|tasks?)\s*(?:related to|with word|containing|that contain)?\s*['"]?(.+?)['"]?$`)
	haveAnyAboutRe = regexp.MustCompile(`(?i)do i have any todos?\s+(?:for|about)\s+(.+)\??$`)

	addTitleRe = regexp.MustCompile(`(?i)title\s*(?::|=|is|should be)\s*['"]?(.+?)['"]?(?:\s+(?:and\s+)?(?:desc|description|details)\s*(?::|=|is|should be)\s*|$)`)
	addDescRe  = regexp.MustCompile(`(?i)(?:desc|description|details)\s*(?::|=|is|should be)\s*['"]?(.+?)['"]?$`)
	remindMeRe = regexp.MustCompile(`(?i)remind me to\s+(.+)$`)
	needToRe   = regexp.MustCompile(`(?i)(?:i need to|i have to)\s+(.+)$`)
	bareAddRe  = regexp.MustCompile(`(?i)\badd\b\s+['"]?(.+?)['"]?(?:\s+to\s+my\s+todo\s+list)?$`)

	deleteByTextRe = regexp.MustCompile(`(?i)(?:delete|remove)\s+(?:the\s+)?(.+?)\s+(?:todo|task)\b`)

	addDescShortcutRe = regexp.MustCompile(`(?i)(?:add|set)\s+(?:this\s+)?(?:desc|description|details)\s*(?::|=)?\s*['"]?(.+?)['"]?\s+(?:to|for|in)\s+(?:todo|task)\s+(\d+)\b`)
	segmentSplitRe    = regexp.MustCompile(`(?i)\b(?:and|,)\b`)
	updateTitleRe     = regexp.MustCompile(`(?i)title\s*(?::|=|to|is|as|should be)\s*['"]?(.+?)['"]?(?:\s+(?:and\s+)?(?:desc|description|details)\b|$)`)
	updateDescRe      = regexp.MustCompile(`(?i)(?:desc|description|details)\s*(?::|=|to|is|as|should be)\s*['"]?(.+?)['"]?$`)
	renameRe          = regexp.MustCompile(`(?i)rename\s+(?:todo|task)?\s*\b(\d+)\b\s+(?:as|to)\s+['"]?(.+?)['"]?$`)
)

// rules run in priority order; Parse stops at the first rule that
// returns actions. Several rules can structurally match the same text
// (a message may contain both "show" and "add"), so this order is
// part of the parsing contract.
var rules = []func(raw, t string) []Action{
	parseStatusByNumber,
	parseStatusFirstPerson,
	parseLatestTodo,
	parseShowOne,
	parseShowFirstN,
	parseWhichTodo,
	parseFindSearch,
	parseDeleteAll,
	parseDeleteFiltered,
	parseCount,
	parseSummary,
	parseDetails,
	parseList,
	parseAdd,
	parseMark,
	parseDelete,
	parseUpdate,
	parseGroupByStatus,
	parseUndo,
}

// Parse classifies one chat message into a non-empty action sequence.
// Matching happens on the lowered, whitespace-collapsed message;
// extracted titles, descriptions, and queries keep original casing.
// When nothing matches the result is exactly [Unknown], which callers
// route through the fallback classifier.
func Parse(text string) []Action {
	raw := strings.Join(strings.Fields(text), " ")
	t := strings.ToLower(raw)

	for _, rule := range rules {
		if acts := rule(raw, t); len(acts) > 0 {
			return acts
		}
	}
	return []Action{Unknown{}}
}

// chained appends a trailing list-all action when the message asks to
// "and show" / "then list" after a mutation.
func chained(acts []Action, t string) []Action {
	if chainRe.MatchString(t) {
		return append(acts, List{Filter: FilterAll})
	}
	return acts
}

func containsAny(t string, subs ...string) bool {
	for _, s := range subs {
		if strings.Contains(t, s) {
			return true
		}
	}
	return false
}

func hasPrefixAny(t string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(t, p) {
			return true
		}
	}
	return false
}

// "todo 3 is done", "task 2 is not done"
func parseStatusByNumber(_, t string) []Action {
	m := statusByNumberRe.FindStringSubmatch(t)
	if m == nil {
		return nil
	}
	localNo, _ := strconv.Atoi(m[1])
	completed := true
	switch m[2] {
	case "pending", "incomplete", "not done", "undone":
		completed = false
	}
	return chained([]Action{CompleteMany{LocalNos: []int{localNo}, Completed: completed}}, t)
}

// "I've completed todo 3", "i finished task 2"
func parseStatusFirstPerson(_, t string) []Action {
	m := firstPersonDoneRe.FindStringSubmatch(t)
	if m == nil {
		return nil
	}
	localNo, _ := strconv.Atoi(m[1])
	return chained([]Action{CompleteMany{LocalNos: []int{localNo}, Completed: true}}, t)
}

func parseLatestTodo(_, t string) []Action {
	if strings.Contains(t, "latest todo") || strings.Contains(t, "last todo") {
		return []Action{Details{Ordinal: -1}}
	}
	return nil
}

// "show todo 3", "show task number 3"
func parseShowOne(_, t string) []Action {
	m := showOneRe.FindStringSubmatch(t)
	if m == nil {
		return nil
	}
	n, _ := strconv.Atoi(m[1])
	return []Action{Details{LocalNos: []int{n}}}
}

func parseShowFirstN(_, t string) []Action {
	m := showFirstNRe.FindStringSubmatch(t)
	if m == nil {
		return nil
	}
	n, _ := strconv.Atoi(m[1])
	if n < 1 {
		n = 1
	}
	return []Action{List{Filter: FilterAll, SortBy: SortByCreated, SortDir: SortAsc, Limit: n}}
}

// "Which todo has title groceries?"
func parseWhichTodo(raw, t string) []Action {
	if !containsAny(t, "which todo", "which task") {
		return nil
	}
	m := titleTailRe.FindStringSubmatch(raw)
	if m == nil {
		m = descTailRe.FindStringSubmatch(raw)
	}
	if m != nil {
		return []Action{Search{Query: strings.TrimSpace(m[1])}}
	}
	if m := whichHasRe.FindStringSubmatch(raw); m != nil {
		return []Action{Search{Query: strings.TrimSpace(m[1])}}
	}
	return []Action{Clarify{Message: "What title/description should I look for?"}}
}

// "find todos related to gym", "do i have any todos about taxes"
func parseFindSearch(raw, t string) []Action {
	if !hasPrefixAny(t, "find", "search") && !strings.Contains(t, "do i have any todo") {
		return nil
	}
	query := ""
	if m := findQueryRe.FindStringSubmatch(raw); m != nil {
		query = strings.TrimSpace(m[1])
	}
	if query == "" {
		if m := haveAnyAboutRe.FindStringSubmatch(raw); m != nil {
			query = strings.TrimSpace(m[1])
		}
	}
	return []Action{Search{Query: query}}
}

// "delete all" wins over "delete all completed"; the filtered rule
// below only ever sees bare "delete completed"/"delete pending".
func parseDeleteAll(_, t string) []Action {
	if containsAny(t, "delete all", "clear my todo", "clear my list", "remove everything", "delete everything") {
		return []Action{DeleteAll{}}
	}
	return nil
}

func parseDeleteFiltered(_, t string) []Action {
	if containsAny(t, "delete all completed", "delete completed") {
		return []Action{DeleteFiltered{Filter: FilterCompleted}}
	}
	if containsAny(t, "delete all pending", "delete pending") {
		return []Action{DeleteFiltered{Filter: FilterPending}}
	}
	return nil
}

func parseCount(_, t string) []Action {
	if !containsAny(t, "how many", "count", "total") || !containsAny(t, "todo", "task") {
		return nil
	}
	if containsAny(t, "completed", "done") {
		return []Action{Count{Filter: FilterCompleted}}
	}
	if containsAny(t, "pending", "incomplete") {
		return []Action{Count{Filter: FilterPending}}
	}
	return []Action{Count{Filter: FilterAll}}
}

func parseSummary(_, t string) []Action {
	if strings.Contains(t, "summary") && containsAny(t, "todo", "task") {
		return []Action{Summary{}}
	}
	return nil
}

// "show details of 2 and 3", "what is todo 4"
func parseDetails(_, t string) []Action {
	if !hasPrefixAny(t, "show details", "details of", "what is todo", "what is task") &&
		!strings.Contains(t, "which todo is number") {
		return nil
	}
	if nums := ExtractRangesAndLists(t); len(nums) > 0 {
		return []Action{Details{LocalNos: nums}}
	}
	if ord, ok := ExtractOrdinal(t); ok {
		return []Action{Details{Ordinal: ord}}
	}
	return []Action{Clarify{Message: "Which todo number do you want details for?"}}
}

var listKeywords = []string{
	"show",
	"list",
	"what do i have to do",
	"my todo list",
	"my todos",
	"todo list",
	"do i have any tasks",
	"what’s on my list",
	"what's on my list",
	"anything pending",
	"anything left",
}

var writeVerbPrefixes = []string{
	"add", "create", "make",
	"delete", "remove",
	"update", "patch", "edit", "change",
	"mark", "toggle", "complete", "uncomplete", "reopen", "rename",
}

// Messages starting with a write verb never route here, so "add a
// todo" cannot be misread as a show. The exclusion is a literal
// prefix check; write verbs mid-sentence do not disable listing.
func parseList(_, t string) []Action {
	if !containsAny(t, listKeywords...) || hasPrefixAny(t, writeVerbPrefixes...) {
		return nil
	}

	filter := FilterAll
	if containsAny(t, "completed", "done") {
		filter = FilterCompleted
	} else if containsAny(t, "pending", "incomplete") {
		filter = FilterPending
	}

	priority := ""
	if containsAny(t, "high priority", "highest priority") {
		priority = "high"
	}

	var sortBy SortBy
	var sortDir SortDir
	if strings.Contains(t, "sort") {
		sortBy = SortByCreated
		if strings.Contains(t, "status") {
			sortBy = SortByStatus
		}
		if strings.Contains(t, "priority") {
			sortBy = SortByPriority
		}
		sortDir = SortAsc
		if containsAny(t, "descending", "desc") {
			sortDir = SortDesc
		}
	}

	return []Action{List{Filter: filter, Priority: priority, SortBy: sortBy, SortDir: sortDir}}
}

// "Add buy milk", "remind me to call mom", "Add 3 todos: a, b, c"
func parseAdd(raw, t string) []Action {
	if !hasPrefixAny(t, "add", "create", "make") &&
		!containsAny(t, "remind me to", "i need to", "i have to", "put", "add ") {
		return nil
	}

	if items := SplitMultiItemList(raw); len(items) > 0 {
		return chained([]Action{AddMany{Items: items}}, t)
	}

	var title, desc string
	if m := addTitleRe.FindStringSubmatch(raw); m != nil {
		title = strings.TrimSpace(m[1])
	}
	if m := addDescRe.FindStringSubmatch(raw); m != nil {
		desc = strings.TrimSpace(m[1])
	}

	if title == "" {
		if m := remindMeRe.FindStringSubmatch(raw); m != nil {
			title = strings.TrimSpace(m[1])
		}
	}
	if title == "" && containsAny(t, "i need to", "i have to") {
		if m := needToRe.FindStringSubmatch(raw); m != nil {
			title = strings.TrimSpace(m[1])
		}
	}
	if title == "" && strings.Contains(t, "add") {
		if idx := strings.Index(raw, ":"); idx >= 0 {
			title = strings.Trim(strings.TrimSpace(raw[idx+1:]), `'"`)
		} else if m := bareAddRe.FindStringSubmatch(raw); m != nil {
			title = strings.Trim(strings.TrimSpace(m[1]), `'"`)
		}
	}

	return chained([]Action{Add{Title: title, Description: desc}}, t)
}

// "mark 2 and 3 as done", "toggle 2", "reopen todo 8", "mark all todos as completed"
func parseMark(_, t string) []Action {
	if !hasPrefixAny(t, "mark", "complete", "uncomplete", "incomplete", "reopen", "toggle") &&
		!strings.Contains(t, "mark all todos as completed") {
		return nil
	}

	if strings.Contains(t, "mark all") {
		if containsAny(t, "completed", "done") {
			return []Action{CompleteAll{Completed: true}}
		}
		if containsAny(t, "pending", "incomplete", "reopen") {
			return []Action{CompleteAll{Completed: false}}
		}
	}

	localNos := ExtractRangesAndLists(t)
	if len(localNos) == 0 {
		if ord, ok := ExtractOrdinal(t); ok {
			if strings.HasPrefix(t, "toggle") {
				return []Action{StatusByOrdinal{Ordinal: ord, Toggle: true}}
			}
			completed := !containsAny(t, "reopen", "uncomplete", "incomplete")
			return []Action{StatusByOrdinal{Ordinal: ord, Completed: completed}}
		}
		return []Action{Clarify{Message: "Which todo do you want to mark done/undone?"}}
	}

	if strings.HasPrefix(t, "toggle") {
		return []Action{ToggleMany{LocalNos: localNos}}
	}
	if containsAny(t, "reopen", "uncomplete", "incomplete") {
		return []Action{CompleteMany{LocalNos: localNos, Completed: false}}
	}
	return []Action{CompleteMany{LocalNos: localNos, Completed: true}}
}

// "delete 2", "remove the grocery todo", "delete todos 1 to 4"
func parseDelete(raw, t string) []Action {
	if !hasPrefixAny(t, "delete", "remove") {
		return nil
	}

	if nums := ExtractRangesAndLists(t); len(nums) > 0 {
		return chained([]Action{DeleteMany{LocalNos: nums}}, t)
	}
	if ord, ok := ExtractOrdinal(t); ok {
		return chained([]Action{DeleteByOrdinal{Ordinal: ord}}, t)
	}
	if m := deleteByTextRe.FindStringSubmatch(raw); m != nil {
		return chained([]Action{DeleteByText{Query: strings.TrimSpace(m[1])}}, t)
	}
	return []Action{Clarify{Message: "Which todo number do you want to delete? Example: Delete todo 3"}}
}

// "update todo 3 title to 'Buy vegetables'", compound edits split on
// "and"/comma, each segment parsed independently.
func parseUpdate(raw, t string) []Action {
	if !hasPrefixAny(t, "update", "patch", "edit", "change", "rename") {
		return nil
	}

	// "Add this description: X to todo 3"
	if m := addDescShortcutRe.FindStringSubmatch(raw); m != nil {
		desc := strings.TrimSpace(m[1])
		n, _ := strconv.Atoi(m[2])
		return []Action{PatchMany{LocalNos: []int{n}, Description: &desc}}
	}

	var segActions []Action
	for _, seg := range segmentSplitRe.Split(raw, -1) {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		segLower := strings.ToLower(seg)
		segNums := ExtractRangesAndLists(segLower)
		if len(segNums) == 0 {
			continue
		}

		if containsAny(segLower, "status", "completed", "done", "reopen") {
			completed := !containsAny(segLower, "reopen", "pending", "incomplete")
			segActions = append(segActions, CompleteMany{LocalNos: segNums, Completed: completed})
			continue
		}

		var title, desc *string
		if m := updateTitleRe.FindStringSubmatch(seg); m != nil {
			v := strings.TrimSpace(m[1])
			title = &v
		}
		if m := updateDescRe.FindStringSubmatch(seg); m != nil {
			v := strings.TrimSpace(m[1])
			desc = &v
		}

		if title == nil && strings.HasPrefix(segLower, "rename") {
			if m := renameRe.FindStringSubmatch(seg); m != nil {
				n, _ := strconv.Atoi(m[1])
				segNums = []int{n}
				v := strings.TrimSpace(m[2])
				title = &v
			}
		}

		segActions = append(segActions, PatchMany{LocalNos: segNums, Title: title, Description: desc})
	}
	if len(segActions) > 0 {
		return segActions
	}

	localNos := ExtractRangesAndLists(t)
	if len(localNos) == 0 {
		if _, ok := ExtractOrdinal(t); ok {
			return []Action{Clarify{Message: "Which fields should I update for that todo? (title / description / status)"}}
		}
		return []Action{Clarify{Message: "Which todo do you want to update? Example: Update todo 3 title to 'Buy vegetables'"}}
	}

	var title, desc *string
	if m := updateTitleRe.FindStringSubmatch(raw); m != nil {
		v := strings.TrimSpace(m[1])
		title = &v
	}
	if m := updateDescRe.FindStringSubmatch(raw); m != nil {
		v := strings.TrimSpace(m[1])
		desc = &v
	}

	if desc == nil && strings.Contains(t, "more details") {
		return []Action{Clarify{Message: fmt.Sprintf("What description should I set for todo(s) %s?", HumanizeNumberList(localNos))}}
	}

	return []Action{PatchMany{LocalNos: localNos, Title: title, Description: desc}}
}

func parseGroupByStatus(_, t string) []Action {
	if strings.Contains(t, "group") && strings.Contains(t, "status") {
		return []Action{GroupByStatus{}}
	}
	return nil
}

// Undo is answered, not performed.
func parseUndo(_, t string) []Action {
	if strings.Contains(t, "undo") {
		return []Action{Clarify{Message: "Undo is not implemented yet. Tell me what to revert (e.g., 'reopen todo 3' or 'restore title of todo 2')."}}
	}
	return nil
}
