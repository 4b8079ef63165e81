package model

type TaskStatus string

const (
	TaskTodo  TaskStatus = "todo"
	TaskDoing TaskStatus = "doing"
	TaskDone  TaskStatus = "done"
)

// Task is a card on the user's kanban board.
type Task struct {
	BaseModel
	UserID  uint       `gorm:"index;not null" json:"userId"`
	User    *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Title   string     `gorm:"size:255;not null" json:"title"`
	Status  TaskStatus `gorm:"size:10;default:'todo'" json:"status"`
	Tag     string     `gorm:"size:50;default:'General'" json:"tag"`
	DueDate string     `gorm:"size:32" json:"dueDate"`
}

func (Task) TableName() string {
	return "tasks"
}
