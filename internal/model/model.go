package model

// Priority levels as the backend encodes them.
const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
)

// Task statuses as the backend encodes them.
const (
	StatusTodo       = "TODO"
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
)

const (
	ThemeLight = "LIGHT"
	ThemeDark  = "DARK"
)

const (
	LanguageEN = "EN"
	LanguageES = "ES"
)

type Task struct {
	ID          int64   `json:"id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	DueDate     *string `json:"dueDate"`
	Priority    string  `json:"priority"`
	Status      string  `json:"status"`
	Archived    bool    `json:"archived"`
	ListID      *int64  `json:"listId"`
	AuthorID    int64   `json:"authorId"`
}

type List struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Color    string `json:"color"`
	AuthorID int64  `json:"authorId"`
}

// ListData is the single-list read: the list plus its tasks, fetched as one
// payload so the screen never issues a request per filter.
type ListData struct {
	List  List   `json:"list"`
	Tasks []Task `json:"tasks"`
}

type User struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Avatar    *string `json:"avatar"`
}

type Settings struct {
	Theme           string `json:"theme"`
	DateFormat      string `json:"dateFormat"`
	Language        string `json:"language"`
	DefaultPriority string `json:"defaultPriority"`
	DefaultStatus   string `json:"defaultStatus"`
}

// DefaultSettings mirrors what the backend seeds for a fresh account.
func DefaultSettings() Settings {
	return Settings{
		Theme:           ThemeLight,
		DateFormat:      FormatMMDDYYYY,
		Language:        LanguageEN,
		DefaultPriority: PriorityLow,
		DefaultStatus:   StatusTodo,
	}
}

// NextStatus cycles TODO -> IN_PROGRESS -> DONE -> TODO.
func NextStatus(status string) string {
	switch status {
	case StatusTodo:
		return StatusInProgress
	case StatusInProgress:
		return StatusDone
	default:
		return StatusTodo
	}
}

// TaskCounts summarises the active task set for the stats line.
type TaskCounts struct {
	Total     int
	Completed int
}

func CountTasks(tasks []Task) TaskCounts {
	counts := TaskCounts{Total: len(tasks)}
	for _, task := range tasks {
		if task.Status == StatusDone {
			counts.Completed++
		}
	}
	return counts
}
