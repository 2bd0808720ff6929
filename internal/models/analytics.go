package models

// UserAnalytics holds derived per-user statistics. It is never stored:
// every value is recomputed on demand from the full scan and favorite
// collections of one user.
type UserAnalytics struct {
	TotalScans        int            `json:"totalScans"`
	CategoriesScanned map[string]int `json:"categoriesScanned"`
	MonthlyScans      map[string]int `json:"monthlyScans"`
	FavoriteCount     int            `json:"favoriteCount"`
}
