package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/todochat/todochat/internal/intent"
	"github.com/todochat/todochat/internal/model"
	"github.com/todochat/todochat/internal/repository"
)

const maxMessageLen = 2000

// Classifier is the secondary classification stage, consulted only
// when the rule parser cannot classify a message.
type Classifier interface {
	Classify(ctx context.Context, text string) []intent.Action
}

// ChatService turns a chat message into todo operations and a reply.
// Every action resolves local numbers against a fresh id-ascending
// fetch, and every mutation is applied before the next action runs, so
// "delete 2 and show remaining todos" lists the post-delete state.
type ChatService struct {
	todoRepo repository.TodoRepository
	chatRepo repository.ChatMessageRepository
	fallback Classifier
	logger   *slog.Logger
}

func NewChatService(todoRepo repository.TodoRepository, chatRepo repository.ChatMessageRepository, fallback Classifier, logger *slog.Logger) *ChatService {
	return &ChatService{
		todoRepo: todoRepo,
		chatRepo: chatRepo,
		fallback: fallback,
		logger:   logger,
	}
}

func (s *ChatService) SendMessage(ctx context.Context, userID int64, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", fmt.Errorf("%w: message is required", ErrInvalidInput)
	}
	if len(message) > maxMessageLen {
		return "", fmt.Errorf("%w: message must be at most %d characters", ErrInvalidInput, maxMessageLen)
	}

	if _, err := s.chatRepo.Append(ctx, userID, model.ChatRoleUser, message); err != nil {
		return "", err
	}

	actions := intent.Parse(message)
	if len(actions) == 1 {
		if _, unknown := actions[0].(intent.Unknown); unknown {
			actions = s.fallback.Classify(ctx, message)
		}
	}

	var fragments []string
	for _, action := range actions {
		fragment, err := s.execute(ctx, userID, action)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(fragment) != "" {
			fragments = append(fragments, fragment)
		}
	}

	reply := strings.Join(fragments, "\n\n")
	if reply == "" {
		reply = "Done."
	}

	if _, err := s.chatRepo.Append(ctx, userID, model.ChatRoleAssistant, reply); err != nil {
		return "", err
	}

	return reply, nil
}

func (s *ChatService) History(ctx context.Context, userID int64) ([]model.ChatMessage, error) {
	return s.chatRepo.ListByUser(ctx, userID)
}

func (s *ChatService) ClearHistory(ctx context.Context, userID int64) error {
	return s.chatRepo.DeleteAll(ctx, userID)
}

// execute applies one action and returns its reply fragment.
// User-reference problems (unknown local number, empty search result)
// become informational fragments; only storage failures are errors.
func (s *ChatService) execute(ctx context.Context, userID int64, action intent.Action) (string, error) {
	switch a := action.(type) {
	case intent.Add:
		return s.execAdd(ctx, userID, a)
	case intent.AddMany:
		return s.execAddMany(ctx, userID, a)
	case intent.List:
		return s.execList(ctx, userID, a)
	case intent.Count:
		return s.execCount(ctx, userID, a)
	case intent.Summary:
		return s.execSummary(ctx, userID)
	case intent.Details:
		return s.execDetails(ctx, userID, a)
	case intent.Search:
		return s.execSearch(ctx, userID, a)
	case intent.PatchMany:
		return s.execPatchMany(ctx, userID, a)
	case intent.CompleteMany:
		return s.execCompleteMany(ctx, userID, a)
	case intent.ToggleMany:
		return s.execToggleMany(ctx, userID, a)
	case intent.CompleteAll:
		return s.execCompleteAll(ctx, userID, a)
	case intent.StatusByOrdinal:
		return s.execStatusByOrdinal(ctx, userID, a)
	case intent.DeleteMany:
		return s.execDeleteMany(ctx, userID, a)
	case intent.DeleteByOrdinal:
		return s.execDeleteByOrdinal(ctx, userID, a)
	case intent.DeleteByText:
		return s.execDeleteByText(ctx, userID, a)
	case intent.DeleteFiltered:
		return s.execDeleteFiltered(ctx, userID, a)
	case intent.DeleteAll:
		return s.execDeleteAll(ctx, userID)
	case intent.GroupByStatus:
		return s.execGroupByStatus(ctx, userID)
	case intent.Clarify:
		if a.Message == "" {
			return "Can you clarify what you want to do?", nil
		}
		return a.Message, nil
	case intent.Unknown:
		return unknownHelp, nil
	default:
		s.logger.WarnContext(ctx, "unhandled chat action", "action", fmt.Sprintf("%T", action))
		return unknownHelp, nil
	}
}

const unknownHelp = "I can help with todos. Try:\n" +
	"- Todo 1 is completed / Todo 1 is incomplete\n" +
	"- I've completed todo 3\n" +
	"- Add a todo: buy groceries\n" +
	"- Add 3 todos: buy milk, buy eggs, buy bread\n" +
	"- Show my todos / Show completed / Show pending\n" +
	"- Show todo 3 / Show todo number 3\n" +
	"- Show first 5 todos / Show my latest todo\n" +
	"- Which todo has title groceries?\n" +
	"- Add this description: buy xyz to todo 3\n" +
	"- Update todo 3 title to 'Buy vegetables'\n" +
	"- Mark todo 3 as completed / Reopen todo 8 / Toggle 2\n" +
	"- Delete 2 / Delete todo 2 / Delete todos 1 to 4\n" +
	"- Delete all completed / Delete all todos\n" +
	"- Find todo related to gym\n" +
	"- Delete todo 2 and show remaining todos"

func (s *ChatService) execAdd(ctx context.Context, userID int64, a intent.Add) (string, error) {
	title := strings.TrimSpace(a.Title)
	if title == "" {
		return "Please provide a title. Example: Add buy groceries", nil
	}

	todo, err := s.todoRepo.Create(ctx, model.Todo{
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(a.Description),
	})
	if err != nil {
		return "", fmt.Errorf("failed to add todo: %w", err)
	}

	todos, err := s.todoRepo.ListByUser(ctx, userID)
	if err != nil {
		return "", err
	}

	msg := fmt.Sprintf("✅ Added Todo %d\nTitle: %s", localNumberOf(todos, todo.ID), todo.Title)
	if todo.Description != "" {
		msg += "\nDescription: " + todo.Description
	}
	return msg, nil
}

func (s *ChatService) execAddMany(ctx context.Context, userID int64, a intent.AddMany) (string, error) {
	if len(a.Items) == 0 {
		return "What todos should I add?", nil
	}

	var addedNos []int
	for _, item := range a.Items {
		title := strings.TrimSpace(item)
		if title == "" {
			continue
		}
		if _, err := s.todoRepo.Create(ctx, model.Todo{UserID: userID, Title: title}); err != nil {
			return "", fmt.Errorf("failed to add todo: %w", err)
		}
		todos, err := s.todoRepo.ListByUser(ctx, userID)
		if err != nil {
			return "", err
		}
		addedNos = append(addedNos, len(todos))
	}

	if len(addedNos) == 0 {
		return "I could not find valid todo titles to add.", nil
	}
	return fmt.Sprintf("✅ Added %d todos: %s", len(addedNos), intent.HumanizeNumberList(addedNos)), nil
}

func (s *ChatService) execList(ctx context.Context, userID int64, a intent.List) (string, error) {
	all, err := s.todoRepo.ListByUser(ctx, userID)
	if err != nil {
		return "", err
	}

	todos := filterTodos(all, a.Filter)

	// There is no priority column; sorting by priority or filtering to
	// high priority keeps the id order.
	switch a.SortBy {
	case intent.SortByStatus:
		sort.SliceStable(todos, func(i, j int) bool {
			if a.SortDir == intent.SortDesc {
				return todos[i].Completed && !todos[j].Completed
			}
			return !todos[i].Completed && todos[j].Completed
		})
	case intent.SortByCreated, intent.SortByPriority:
		if a.SortDir == intent.SortDesc {
			reverseTodos(todos)
		}
	}

	if a.Limit > 0 && len(todos) > a.Limit {
		todos = todos[:a.Limit]
	}

	return formatTodos(all, todos), nil
}

func (s *ChatService) execCount(ctx context.Context, userID int64, a intent.Count) (string, error) {
	todos, err := s.todoRepo.ListByUser(ctx, userID)
	if err != nil {
		return "", err
	}

	switch a.Filter {
	case intent.FilterCompleted:
		return fmt.Sprintf("\U0001F4CC Completed todos: %d", len(filterTodos(todos, a.Filter))), nil
	case intent.FilterPending:
		return fmt.Sprintf("\U0001F4CC Pending todos: %d", len(filterTodos(todos, a.Filter))), nil
	default:
		return fmt.Sprintf("\U0001F4CC Total todos: %d", len(todos)), nil
	}
}

func (s *ChatService) execSummary(ctx context.Context, userID int64) (string, error) {
	todos, err := s.todoRepo.ListByUser(ctx, userID)
	if err != nil {
		return "", err
	}

	completed := len(filterTodos(todos, intent.FilterCompleted))
	return fmt.Sprintf("Summary:\n- Total: %d\n- Completed: %d\n- Pending: %d\n\n%s",
		len(todos), completed, len(todos)-completed, formatTodos(todos, todos)), nil
}

func (s *ChatService) execDetails(ctx context.Context, userID int64, a intent.Details) (string, error) {
	todos, err := s.todoRepo.ListByUser(ctx, userID)
	if err != nil {
		return "", err
	}

	localNos := a.LocalNos
	if a.Ordinal != 0 {
		local, ok := intent.ResolveOrdinal(len(todos), a.Ordinal)
		if !ok {
			return "I could not find that todo.", nil
		}
		localNos = []int{local}
	}

	if len(localNos) == 0 {
		return "Which todo number do you want details for?", nil
	}

	found := selectByLocalNumbers(todos, localNos)
	if len(found) == 0 {
		return "No matching todos found.", nil
	}

	return formatTodos(todos, found), nil
}

func (s *ChatService) execSearch(ctx context.Context, userID int64, a intent.Search) (string, error) {
	query := strings.TrimSpace(a.Query)
	if query == "" {
		return "What should I search for? Example: Search todos containing 'meeting'", nil
	}

	matches, err := s.todoRepo.Search(ctx, userID, query)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "No todos matched: " + query, nil
	}

	all, err := s.todoRepo.ListByUser(ctx, userID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Search results for '%s':\n%s", query, formatTodos(all, matches)), nil
}

func (s *ChatService) execPatchMany(ctx context.Context, userID int64, a intent.PatchMany) (string, error) {
	if len(a.LocalNos) == 0 {
		return "Which todo do you want to update? Example: Update todo 3 title to 'Buy vegetables'", nil
	}
	if a.Title == nil && a.Description == nil && a.Completed == nil {
		return fmt.Sprintf("What should I update for todo(s) %s? (title / description / status)",
			intent.HumanizeNumberList(a.LocalNos)), nil
	}

	todos, err := s.todoRepo.ListByUser(ctx, userID)
	if err != nil {
		return "", err
	}

	targets := selectByLocalNumbers(todos, a.LocalNos)
	if len(targets) == 0 {
		return "No matching todos found.", nil
	}

	var updated []model.Todo
	for _, todo := range targets {
		if a.Title != nil {
			if title := strings.TrimSpace(*a.Title); title != "" {
				todo.Title = title
			}
		}
		if a.Description != nil {
			todo.Description = strings.TrimSpace(*a.Description)
		}
		if a.Completed != nil {
			todo.Completed = *a.Completed
		}

		saved, err := s.todoRepo.Update(ctx, todo)
		if err != nil {
			return "", fmt.Errorf("failed to update todo: %w", err)
		}
		updated = append(updated, saved)
	}

	if len(updated) == 0 {
		return "No todos were updated.", nil
	}
	return "✅ Updated:\n" + formatTodos(todos, updated), nil
}

func (s *ChatService) execCompleteMany(ctx context.Context, userID int64, a intent.CompleteMany) (string, error) {
	if len(a.LocalNos) == 0 {
		return "Which todo do you want to mark done/undone?", nil
	}

	todos, err := s.todoRepo.ListByUser(ctx, userID)
	if err != nil {
		return "", err
	}

	targets := selectByLocalNumbers(todos, a.LocalNos)
	if len(targets) == 0 {
		return "No matching todos found.", nil
	}

	changed, err := s.setCompleted(ctx, targets, a.Completed)
	if err != nil {
		return "", err
	}
	return "✅ Updated status:\n" + formatTodos(todos, changed), nil
}

func (s *ChatService) execToggleMany(ctx context.Context, userID int64, a intent.ToggleMany) (string, error) {
	if len(a.LocalNos) == 0 {
		return "Which todo do you want to toggle?", nil
	}

	todos, err := s.todoRepo.ListByUser(ctx, userID)
	if err != nil {
		return "", err
	}

	targets := selectByLocalNumbers(todos, a.LocalNos)
	if len(targets) == 0 {
		return "No matching todos found.", nil
	}

	var changed []model.Todo
	for _, todo := range targets {
		todo.Completed = !todo.Completed
		saved, err := s.todoRepo.Update(ctx, todo)
		if err != nil {
			return "", fmt.Errorf("failed to toggle todo: %w", err)
		}
		changed = append(changed, saved)
	}
	return "✅ Toggled status:\n" + formatTodos(todos, changed), nil
}

func (s *ChatService) execCompleteAll(ctx context.Context, userID int64, a intent.CompleteAll) (string, error) {
	if _, err := s.todoRepo.SetCompletedAll(ctx, userID, a.Completed); err != nil {
		return "", err
	}
	state := "completed"
	if !a.Completed {
		state = "pending"
	}
	return fmt.Sprintf("✅ Marked all todos as %s.", state), nil
}

func (s *ChatService) execStatusByOrdinal(ctx context.Context, userID int64, a intent.StatusByOrdinal) (string, error) {
	todos, err := s.todoRepo.ListByUser(ctx, userID)
	if err != nil {
		return "", err
	}

	local, ok := intent.ResolveOrdinal(len(todos), a.Ordinal)
	if !ok {
		return "I could not find that todo.", nil
	}

	todo := todos[local-1]
	if a.Toggle {
		todo.Completed = !todo.Completed
	} else {
		todo.Completed = a.Completed
	}

	saved, err := s.todoRepo.Update(ctx, todo)
	if err != nil {
		return "", fmt.Errorf("failed to update todo: %w", err)
	}
	return "✅ Updated status:\n" + formatTodos(todos, []model.Todo{saved}), nil
}

func (s *ChatService) execDeleteMany(ctx context.Context, userID int64, a intent.DeleteMany) (string, error) {
	if len(a.LocalNos) == 0 {
		return "Which todo number do you want to delete? Example: Delete todo 3", nil
	}

	todos, err := s.todoRepo.ListByUser(ctx, userID)
	if err != nil {
		return "", err
	}

	targets := selectByLocalNumbers(todos, a.LocalNos)
	if len(targets) == 0 {
		return "No matching todos found.", nil
	}

	deletedLocal, err := s.deleteTodos(ctx, userID, todos, targets)
	if err != nil {
		return "", err
	}
	if len(deletedLocal) == 0 {
		return "No todos were deleted.", nil
	}
	return "\U0001F5D1️ Deleted todo(s): " + intent.HumanizeNumberList(deletedLocal), nil
}

func (s *ChatService) execDeleteByOrdinal(ctx context.Context, userID int64, a intent.DeleteByOrdinal) (string, error) {
	todos, err := s.todoRepo.ListByUser(ctx, userID)
	if err != nil {
		return "", err
	}

	local, ok := intent.ResolveOrdinal(len(todos), a.Ordinal)
	if !ok {
		return "I could not find that todo.", nil
	}

	if err := s.todoRepo.Delete(ctx, userID, todos[local-1].ID); err != nil {
		return "", fmt.Errorf("failed to delete todo: %w", err)
	}
	return fmt.Sprintf("\U0001F5D1️ Deleted Todo %d.", local), nil
}

func (s *ChatService) execDeleteByText(ctx context.Context, userID int64, a intent.DeleteByText) (string, error) {
	query := strings.TrimSpace(a.Query)
	if query == "" {
		return "Which todo should I delete? Example: Delete the grocery todo", nil
	}

	matches, err := s.todoRepo.Search(ctx, userID, query)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "No todos matched: " + query, nil
	}

	all, err := s.todoRepo.ListByUser(ctx, userID)
	if err != nil {
		return "", err
	}

	deletedLocal, err := s.deleteTodos(ctx, userID, all, matches)
	if err != nil {
		return "", err
	}
	return "\U0001F5D1️ Deleted todo(s): " + intent.HumanizeNumberList(deletedLocal), nil
}

func (s *ChatService) execDeleteFiltered(ctx context.Context, userID int64, a intent.DeleteFiltered) (string, error) {
	completed := a.Filter == intent.FilterCompleted
	name := "completed"
	if !completed {
		name = "pending"
	}

	n, err := s.todoRepo.DeleteByCompleted(ctx, userID, completed)
	if err != nil {
		return "", err
	}
	if n == 0 {
		return fmt.Sprintf("No %s todos to delete.", name), nil
	}
	return fmt.Sprintf("\U0001F5D1️ Deleted all %s todos (%d).", name, n), nil
}

func (s *ChatService) execDeleteAll(ctx context.Context, userID int64) (string, error) {
	if _, err := s.todoRepo.DeleteAll(ctx, userID); err != nil {
		return "", err
	}
	return "\U0001F5D1️ Deleted all todos.", nil
}

func (s *ChatService) execGroupByStatus(ctx context.Context, userID int64) (string, error) {
	todos, err := s.todoRepo.ListByUser(ctx, userID)
	if err != nil {
		return "", err
	}

	pending := filterTodos(todos, intent.FilterPending)
	done := filterTodos(todos, intent.FilterCompleted)

	pendingPart := "No pending todos."
	if len(pending) > 0 {
		pendingPart = formatTodos(todos, pending)
	}
	donePart := "No completed todos."
	if len(done) > 0 {
		donePart = formatTodos(todos, done)
	}

	return "Pending:\n" + pendingPart + "\n\nCompleted:\n" + donePart, nil
}

func (s *ChatService) setCompleted(ctx context.Context, targets []model.Todo, completed bool) ([]model.Todo, error) {
	var changed []model.Todo
	for _, todo := range targets {
		todo.Completed = completed
		saved, err := s.todoRepo.Update(ctx, todo)
		if err != nil {
			return nil, fmt.Errorf("failed to update todo status: %w", err)
		}
		changed = append(changed, saved)
	}
	return changed, nil
}

// deleteTodos removes targets and reports their local numbers as they
// were before the deletion.
func (s *ChatService) deleteTodos(ctx context.Context, userID int64, all, targets []model.Todo) ([]int, error) {
	var deletedLocal []int
	for _, todo := range targets {
		local := localNumberOf(all, todo.ID)
		if local == 0 {
			continue
		}
		if err := s.todoRepo.Delete(ctx, userID, todo.ID); err != nil {
			return nil, fmt.Errorf("failed to delete todo: %w", err)
		}
		deletedLocal = append(deletedLocal, local)
	}
	return deletedLocal, nil
}

// localNumberOf returns the 1-based position of id in the id-ascending
// list, or 0 when absent.
func localNumberOf(todos []model.Todo, id int64) int {
	for i, t := range todos {
		if t.ID == id {
			return i + 1
		}
	}
	return 0
}

// selectByLocalNumbers picks the todos addressed by local numbers,
// ignoring out-of-range references.
func selectByLocalNumbers(todos []model.Todo, localNos []int) []model.Todo {
	seen := map[int]bool{}
	nos := make([]int, 0, len(localNos))
	for _, n := range localNos {
		if !seen[n] {
			seen[n] = true
			nos = append(nos, n)
		}
	}
	sort.Ints(nos)

	var out []model.Todo
	for _, n := range nos {
		if n >= 1 && n <= len(todos) {
			out = append(out, todos[n-1])
		}
	}
	return out
}

func filterTodos(todos []model.Todo, filter intent.Filter) []model.Todo {
	if filter != intent.FilterCompleted && filter != intent.FilterPending {
		return append([]model.Todo(nil), todos...)
	}
	want := filter == intent.FilterCompleted
	var out []model.Todo
	for _, t := range todos {
		if t.Completed == want {
			out = append(out, t)
		}
	}
	return out
}

func reverseTodos(todos []model.Todo) {
	for i, j := 0, len(todos)-1; i < j; i, j = i+1, j-1 {
		todos[i], todos[j] = todos[j], todos[i]
	}
}

// formatTodos renders todos one per line, numbered by their position
// in the full id-ascending list.
func formatTodos(all, todos []model.Todo) string {
	if len(todos) == 0 {
		return "No todos found."
	}

	lines := make([]string, 0, len(todos))
	for _, t := range todos {
		mark := "⏳"
		if t.Completed {
			mark = "✅"
		}
		local := "?"
		if n := localNumberOf(all, t.ID); n > 0 {
			local = fmt.Sprintf("%d", n)
		}
		line := fmt.Sprintf("%s Todo %s: %s", mark, local, t.Title)
		if t.Description != "" {
			line += " — " + t.Description
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
