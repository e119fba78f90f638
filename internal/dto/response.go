package dto

// ── auth responses ──

// AuthResponse issued bearer token and the signed-in user
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expires_in"` // seconds
	User      UserResponse `json:"user"`
}

// ── user responses ──

// UserResponse the caller's own profile
type UserResponse struct {
	ID           string        `json:"id"`
	Email        string        `json:"email"`
	FullName     string        `json:"full_name"`
	ClassYear    int           `json:"class_year"`
	Gender       string        `json:"gender,omitempty"`
	CreatedAt    string        `json:"created_at"`
	CurrentRoom  *RoomResponse `json:"current_room"`
	IsRoomListed bool          `json:"is_room_listed"`
}

// VisibilityResponse listing flag after a toggle
type VisibilityResponse struct {
	IsRoomListed bool   `json:"is_room_listed"`
	UpdatedAt    string `json:"updated_at"`
}

// UserSummary public view of another user; never carries the email
type UserSummary struct {
	ID        string `json:"id"`
	FullName  string `json:"full_name"`
	ClassYear int    `json:"class_year"`
	Gender    string `json:"gender,omitempty"`
}

// OwnerSummary owner info shown on feed cards
type OwnerSummary struct {
	FullName  string `json:"full_name"`
	ClassYear int    `json:"class_year"`
}

// ── room responses ──

// RoomResponse a room record
type RoomResponse struct {
	ID          string   `json:"id"`
	Dorm        string   `json:"dorm"`
	RoomNumber  string   `json:"room_number"`
	Occupancy   int      `json:"occupancy"`
	Amenities   []string `json:"amenities"`
	Description *string  `json:"description"`
	Gender      string   `json:"gender,omitempty"`
	UpdatedAt   string   `json:"updated_at,omitempty"`
}

// RoomFeedItem a listed room with its owner
type RoomFeedItem struct {
	RoomResponse
	Owner OwnerSummary `json:"owner"`
}

// RoomListResponse feed and saved-room lists
type RoomListResponse struct {
	Rooms []RoomFeedItem `json:"rooms"`
	Total int            `json:"total"`
}

// ── recommendation responses ──

// RecommendedRoom a feed item with its match score (2 decimals)
type RecommendedRoom struct {
	RoomFeedItem
	Score float64 `json:"score"`
}

// RecommendationResponse ranked candidates, best first
type RecommendationResponse struct {
	Rooms []RecommendedRoom `json:"rooms"`
	Total int               `json:"total"`
}

// ── knock responses ──

// KnockContacts both parties' emails, revealed once a knock is accepted
type KnockContacts struct {
	RequesterEmail string `json:"requester_email"`
	OwnerEmail     string `json:"owner_email"`
}

// KnockResponse a knock with its parties
type KnockResponse struct {
	ID         string         `json:"id"`
	FromUser   UserSummary    `json:"from_user"`
	ToRoom     RoomResponse   `json:"to_room"`
	Status     string         `json:"status"`
	CreatedAt  string         `json:"created_at"`
	AcceptedAt *string        `json:"accepted_at"`
	Contacts   *KnockContacts `json:"contacts,omitempty"`
}

// KnockListResponse sent or received knocks, newest first
type KnockListResponse struct {
	Knocks []KnockResponse `json:"knocks"`
	Total  int             `json:"total"`
}

// ── dorm responses ──

// DormResponse a catalogue entry
type DormResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
	URL  string `json:"url"`
}

// DormFeaturesResponse scraped community features of a dorm
type DormFeaturesResponse struct {
	Dorm     string   `json:"dorm"`
	Features []string `json:"features"`
}
