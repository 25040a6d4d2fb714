package domain

// SeedUsers are recreated whenever the user index is empty and survive a reset.
// Passwords are hashed before they are stored.
var SeedUsers = []User{
	{
		ID:         "admin-seed",
		Name:       "Admin User",
		Email:      "admin@keytrack.app",
		Department: "System Administration",
		Phone:      "123-456-7890",
		Password:   "password",
		Role:       RoleAdmin,
		RoomNumber: "Admin Office",
	},
	{
		ID:         "iium-admin-seed",
		Name:       "Muhamad Faez",
		Email:      "muhamadfaez@iium.edu.my",
		Department: "Kulliyyah of ICT",
		Phone:      "012-345-6789",
		Password:   "faez123",
		Role:       RoleAdmin,
		RoomNumber: "KICT Building",
	},
}

// IsSeedUser reports whether id belongs to a seed user
func IsSeedUser(id string) bool {
	for _, u := range SeedUsers {
		if u.ID == id {
			return true
		}
	}
	return false
}
