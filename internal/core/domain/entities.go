package domain

import "time"

// KeyStatus represents the lifecycle state of a physical key
type KeyStatus string

const (
	KeyStatusAvailable KeyStatus = "Available"
	KeyStatusIssued    KeyStatus = "Issued"
	KeyStatusOverdue   KeyStatus = "Overdue"
	KeyStatusLost      KeyStatus = "Lost"
)

// KeyStatuses lists every status in report order
var KeyStatuses = []KeyStatus{
	KeyStatusAvailable,
	KeyStatusIssued,
	KeyStatusOverdue,
	KeyStatusLost,
}

// Valid reports whether s is one of the defined statuses
func (s KeyStatus) Valid() bool {
	for _, known := range KeyStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Key types
const (
	KeyTypeSingle    = "Single"
	KeyTypeMaster    = "Master"
	KeyTypeSubMaster = "Sub-Master"
)

// AssignmentType tells whether an assignment has a due date to honour
type AssignmentType string

const (
	AssignmentPersonal AssignmentType = "personal"
	AssignmentEvent    AssignmentType = "event"
)

// Valid reports whether t is personal or event
func (t AssignmentType) Valid() bool {
	return t == AssignmentPersonal || t == AssignmentEvent
}

// RequestStatus represents a key request state
type RequestStatus string

const (
	RequestPending  RequestStatus = "Pending"
	RequestApproved RequestStatus = "Approved"
	RequestRejected RequestStatus = "Rejected"
)

// Role represents user role in the system
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Key is a physical key in the inventory
type Key struct {
	ID              string    `json:"id"`
	KeyNumber       string    `json:"keyNumber"`
	KeyType         string    `json:"keyType"`
	RoomNumber      string    `json:"roomNumber"`
	Status          KeyStatus `json:"status"`
	CurrentHolderID string    `json:"currentHolderId,omitempty"`
}

func (k *Key) GetID() string   { return k.ID }
func (k *Key) SetID(id string) { k.ID = id }

// KeyAssignment records a key handed to a person.
// A nil ReturnDate means the assignment is still active.
type KeyAssignment struct {
	ID             string         `json:"id"`
	KeyID          string         `json:"keyId"`
	PersonnelID    string         `json:"personnelId"`
	IssueDate      time.Time      `json:"issueDate"`
	AssignmentType AssignmentType `json:"assignmentType"`
	DueDate        *time.Time     `json:"dueDate,omitempty"`
	ReturnDate     *time.Time     `json:"returnDate,omitempty"`
}

func (a *KeyAssignment) GetID() string   { return a.ID }
func (a *KeyAssignment) SetID(id string) { a.ID = id }

// IsActive reports whether the key has not been returned yet
func (a *KeyAssignment) IsActive() bool {
	return a.ReturnDate == nil
}

// IsOverdueAt reports whether an active event assignment is past due at t
func (a *KeyAssignment) IsOverdueAt(t time.Time) bool {
	return a.IsActive() &&
		a.AssignmentType == AssignmentEvent &&
		a.DueDate != nil &&
		t.After(*a.DueDate)
}

// KeyRequest is a user's request for a key, approved or rejected by an admin
type KeyRequest struct {
	ID               string         `json:"id"`
	PersonnelID      string         `json:"personnelId"`
	RequestedKeyInfo string         `json:"requestedKeyInfo"`
	AssignmentType   AssignmentType `json:"assignmentType"`
	IssueDate        time.Time      `json:"issueDate"`
	DueDate          *time.Time     `json:"dueDate,omitempty"`
	Status           RequestStatus  `json:"status"`
	CreatedAt        time.Time      `json:"createdAt"`
	KeyID            string         `json:"keyId,omitempty"`
}

func (r *KeyRequest) GetID() string   { return r.ID }
func (r *KeyRequest) SetID(id string) { r.ID = id }

// Notification is an entry of the activity feed
type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

func (n *Notification) GetID() string   { return n.ID }
func (n *Notification) SetID(id string) { n.ID = id }

// User is a person who can hold keys; admins also manage the system
type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Phone      string `json:"phone"`
	Role       Role   `json:"role"`
	Password   string `json:"password,omitempty"` // bcrypt hash, stripped by ToResponse
	RoomNumber string `json:"roomNumber,omitempty"`
}

func (u *User) GetID() string   { return u.ID }
func (u *User) SetID(id string) { u.ID = id }

// UserResponse DTO
type UserResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Phone      string `json:"phone"`
	Role       Role   `json:"role"`
	RoomNumber string `json:"roomNumber,omitempty"`
}

// ToResponse drops the password hash
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Department: u.Department,
		Phone:      u.Phone,
		Role:       u.Role,
		RoomNumber: u.RoomNumber,
	}
}

// Room is a room or area that keys open
type Room struct {
	ID          string `json:"id"`
	RoomNumber  string `json:"roomNumber"`
	Description string `json:"description"`
	KeyID       string `json:"keyId,omitempty"`
}

func (r *Room) GetID() string   { return r.ID }
func (r *Room) SetID(id string) { r.ID = id }

// NotificationPrefs controls which events are also sent by e-mail
type NotificationPrefs struct {
	OverdueKeys bool `json:"overdueKeys"`
	KeyReturns  bool `json:"keyReturns"`
	KeyIssues   bool `json:"keyIssues"`
}

// ProfileID is the id of the singleton profile record
const ProfileID = "main"

// UserProfile holds the application branding and admin contact
type UserProfile struct {
	Name              string            `json:"name"`
	Email             string            `json:"email"`
	Department        string            `json:"department"`
	AppLogoBase64     *string           `json:"appLogoBase64"`
	AppName           string            `json:"appName"`
	NotificationPrefs NotificationPrefs `json:"notificationPrefs"`
}

// DefaultProfile returns the profile created on first read
func DefaultProfile() UserProfile {
	return UserProfile{
		Name:       "Admin User",
		Email:      "admin@university.edu",
		Department: "IT Services",
		AppName:    "KeyTrack",
		NotificationPrefs: NotificationPrefs{
			OverdueKeys: true,
		},
	}
}

// PopulatedAssignment is an assignment joined with its key and holder
type PopulatedAssignment struct {
	KeyAssignment
	Key  *Key          `json:"key"`
	User *UserResponse `json:"user"`
}

// PopulatedRequest is a key request joined with its requester
type PopulatedRequest struct {
	KeyRequest
	User *UserResponse `json:"user"`
}

// ValidKeyType reports whether t is a known key type
func ValidKeyType(t string) bool {
	return t == KeyTypeSingle || t == KeyTypeMaster || t == KeyTypeSubMaster
}
