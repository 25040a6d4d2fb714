package repositories

import (
	"keytrack/internal/adapters/persistence/store"
	"keytrack/internal/core/domain"
)

// Entity and index names. They form the store keyspace and must not change.
const (
	KeyEntityName        = "key"
	KeyIndexName         = "keys"
	AssignmentEntityName = "keyAssignment"
	AssignmentIndexName  = "keyAssignments"
	RequestEntityName    = "keyRequest"
	RequestIndexName     = "keyRequests"
	NotificationEntity   = "notification"
	NotificationIndex    = "notifications"
	UserEntityName       = "user"
	UserIndexName        = "users"
	RoomEntityName       = "room"
	RoomIndexName        = "rooms"
	ProfileEntityName    = "userProfile"
)

type (
	KeyRepository          = IndexedEntity[domain.Key, *domain.Key]
	AssignmentRepository   = IndexedEntity[domain.KeyAssignment, *domain.KeyAssignment]
	RequestRepository      = IndexedEntity[domain.KeyRequest, *domain.KeyRequest]
	NotificationRepository = IndexedEntity[domain.Notification, *domain.Notification]
	UserRepository         = IndexedEntity[domain.User, *domain.User]
	RoomRepository         = IndexedEntity[domain.Room, *domain.Room]
	ProfileRepository      = Entity[domain.UserProfile]
)

// NewKeyRepository creates the key repository
func NewKeyRepository(s store.Store) *KeyRepository {
	return NewIndexedEntity[domain.Key](s, KeyEntityName, KeyIndexName)
}

// NewAssignmentRepository creates the key assignment repository
func NewAssignmentRepository(s store.Store) *AssignmentRepository {
	return NewIndexedEntity[domain.KeyAssignment](s, AssignmentEntityName, AssignmentIndexName)
}

// NewRequestRepository creates the key request repository
func NewRequestRepository(s store.Store) *RequestRepository {
	return NewIndexedEntity[domain.KeyRequest](s, RequestEntityName, RequestIndexName)
}

// NewNotificationRepository creates the notification repository
func NewNotificationRepository(s store.Store) *NotificationRepository {
	return NewIndexedEntity[domain.Notification](s, NotificationEntity, NotificationIndex)
}

// NewUserRepository creates the user repository
func NewUserRepository(s store.Store) *UserRepository {
	return NewIndexedEntity[domain.User](s, UserEntityName, UserIndexName)
}

// NewRoomRepository creates the room repository
func NewRoomRepository(s store.Store) *RoomRepository {
	return NewIndexedEntity[domain.Room](s, RoomEntityName, RoomIndexName)
}

// NewProfileRepository creates the singleton profile repository
func NewProfileRepository(s store.Store) *ProfileRepository {
	return NewEntity[domain.UserProfile](s, ProfileEntityName)
}

// Repositories groups every repository built on one store
type Repositories struct {
	Keys          *KeyRepository
	Assignments   *AssignmentRepository
	Requests      *RequestRepository
	Notifications *NotificationRepository
	Users         *UserRepository
	Rooms         *RoomRepository
	Profile       *ProfileRepository
}

// New builds all repositories on s
func New(s store.Store) *Repositories {
	return &Repositories{
		Keys:          NewKeyRepository(s),
		Assignments:   NewAssignmentRepository(s),
		Requests:      NewRequestRepository(s),
		Notifications: NewNotificationRepository(s),
		Users:         NewUserRepository(s),
		Rooms:         NewRoomRepository(s),
		Profile:       NewProfileRepository(s),
	}
}
