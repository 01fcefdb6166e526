package dtos

// Stats is the aggregate projection. TotalPoints is only known to the remote
// service and stays nil when computed locally.
type Stats struct {
	TotalPoints      *int `json:"totalPoints,omitempty"`
	CurrentStreak    int  `json:"currentStreak"`
	FastingDays      int  `json:"fastingDays"`
	PrayersCompleted int  `json:"prayersCompleted"`
}
