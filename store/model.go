package store

import "time"

type User struct {
	ID       string `json:"id"` // same as Username
	Username string `json:"username"`
	Password string `json:"password,omitempty"` // bcrypt digest
	IsAdmin  bool   `json:"isAdmin"`
}

func (u User) EntityID() string { return u.ID }

// Public strips the password digest.
func (u User) Public() User {
	u.Password = ""
	return u
}

type Document struct {
	ID           string `json:"id"`
	UserID       string `json:"userId"`
	PersonelName string `json:"personelName"`
	Name         string `json:"name"`
	StartDate    int64  `json:"startDate"` // epoch millis
	EndDate      int64  `json:"endDate"`   // epoch millis
}

func (d Document) EntityID() string { return d.ID }

// Window returns the validity window as times.
func (d Document) Window() (time.Time, time.Time) {
	return time.UnixMilli(d.StartDate), time.UnixMilli(d.EndDate)
}

type Feedback struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	Comment   string `json:"comment"`
	Timestamp int64  `json:"timestamp"` // epoch millis
}

func (f Feedback) EntityID() string { return f.ID }

var (
	UserEntity = EntityConfig[User]{
		Name:      "user",
		IndexName: "users",
	}
	DocumentEntity = EntityConfig[Document]{
		Name:      "document",
		IndexName: "documents",
	}
	FeedbackEntity = EntityConfig[Feedback]{
		Name:      "feedback",
		IndexName: "feedbacks",
	}
)
