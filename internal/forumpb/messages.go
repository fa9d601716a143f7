package forumpb

import "time"

// Messages of the Forum service. Each travels as a google.protobuf.Struct
// whose keys are the json names below; Marshal and Unmarshal convert.

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Role         string    `json:"role"`
	Bio          *string   `json:"bio"`
	ProfileImage *string   `json:"profile_image"`
	AvatarURL    *string   `json:"avatar_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type Thread struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	UserID int64  `json:"user_id"`
	TagID  *int64 `json:"tag_id"`
}

// ThreadSummary is a thread as shown in listings.
type ThreadSummary struct {
	Thread
	Username      string     `json:"username"`
	Tag           *string    `json:"tag"`
	MessageCount  int64      `json:"message_count"`
	LastMessageAt *time.Time `json:"last_message_at"`
}

type Message struct {
	ID          int64     `json:"id"`
	Content     string    `json:"content"`
	ContentHTML string    `json:"content_html,omitempty"`
	SentAt      time.Time `json:"sent_at"`
	UserID      int64     `json:"user_id"`
	ThreadID    int64     `json:"thread_id"`
	Username    string    `json:"username"`
}

type SearchResult struct {
	Message
	ThreadTitle string  `json:"thread_title"`
	Tag         *string `json:"tag"`
}

type UserStats struct {
	Threads  int64 `json:"threads"`
	Messages int64 `json:"messages"`
}

type Empty struct{}

type RegisterRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

type RegisterResponse struct {
	User User `json:"user"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// RefreshTokenRequest is also the request of Logout.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type ListThreadsRequest struct {
	Page int64 `json:"page"`
	Size int64 `json:"size"`
}

type ListThreadsResponse struct {
	Threads    []ThreadSummary `json:"threads"`
	Page       int64           `json:"page"`
	PageSize   int64           `json:"page_size"`
	Total      int64           `json:"total"`
	TotalPages int64           `json:"total_pages"`
}

// IDRequest names a thread or message. GetThread and RemoveMessage take it.
type IDRequest struct {
	ID int64 `json:"id"`
}

type GetThreadResponse struct {
	Thread   Thread    `json:"thread"`
	Messages []Message `json:"messages"`
}

type SearchRequest struct {
	Query string `json:"query"`
}

type SearchResponse struct {
	Results []SearchResult `json:"results"`
}

type CreateThreadRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Tag     string `json:"tag"`
}

// IDResponse carries the id of a created thread or message.
type IDResponse struct {
	ID int64 `json:"id"`
}

type PostMessageRequest struct {
	ThreadID int64  `json:"thread_id"`
	Content  string `json:"content"`
}

type EditMessageRequest struct {
	ID      int64  `json:"id"`
	Content string `json:"content"`
}

type EditMessageResponse struct {
	Message Message `json:"message"`
}

type RemoveMessageResponse struct {
	ID       int64 `json:"id"`
	ThreadID int64 `json:"thread_id"`
}

// GetProfileRequest without a username asks for the caller's own profile.
type GetProfileRequest struct {
	Username string `json:"username,omitempty"`
}

type GetProfileResponse struct {
	User     User            `json:"user"`
	Stats    UserStats       `json:"stats"`
	Threads  []ThreadSummary `json:"threads"`
	Messages []Message       `json:"messages"`
}

// UpdateProfileRequest leaves the image unchanged when ProfileImage is nil.
type UpdateProfileRequest struct {
	Bio          string  `json:"bio"`
	ProfileImage *string `json:"profile_image,omitempty"`
}

type AvatarUploadRequest struct {
	Filename string `json:"filename"`
}

type AvatarUploadResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type SetRoleRequest struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type SetRoleResponse struct {
	User User `json:"user"`
}
