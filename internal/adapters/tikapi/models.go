package tikapi

// Stats are the engagement counters of a video
type Stats struct {
	Views     int64 `json:"views"`
	Likes     int64 `json:"likes"`
	Shares    int64 `json:"shares"`
	Bookmarks int64 `json:"bookmarks"`
	Comments  int64 `json:"comments"`
}

// Video is the decoded subset of a video payload
type Video struct {
	Author      string `json:"author"`
	Description string `json:"description"`
	Stats       Stats  `json:"stats"`
}

// Music is the decoded subset of a music payload
type Music struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	AuthorName string `json:"author_name"`
	Duration   int    `json:"duration"`
}

type videoPayload struct {
	ItemInfo struct {
		ItemStruct struct {
			Author struct {
				UniqueID string `json:"uniqueId"`
			} `json:"author"`
			Desc  string `json:"desc"`
			Stats struct {
				PlayCount    int64 `json:"playCount"`
				DiggCount    int64 `json:"diggCount"`
				ShareCount   int64 `json:"shareCount"`
				CollectCount int64 `json:"collectCount"`
				CommentCount int64 `json:"commentCount"`
			} `json:"stats"`
		} `json:"itemStruct"`
	} `json:"itemInfo"`
}

func (p videoPayload) video() Video {
	it := p.ItemInfo.ItemStruct
	return Video{
		Author:      it.Author.UniqueID,
		Description: it.Desc,
		Stats: Stats{
			Views:     it.Stats.PlayCount,
			Likes:     it.Stats.DiggCount,
			Shares:    it.Stats.ShareCount,
			Bookmarks: it.Stats.CollectCount,
			Comments:  it.Stats.CommentCount,
		},
	}
}

type musicPayload struct {
	MusicInfo struct {
		Music struct {
			ID         string `json:"id"`
			Title      string `json:"title"`
			AuthorName string `json:"authorName"`
			Duration   int    `json:"duration"`
		} `json:"music"`
	} `json:"musicInfo"`
}

func (p musicPayload) music() Music {
	m := p.MusicInfo.Music
	return Music{ID: m.ID, Title: m.Title, AuthorName: m.AuthorName, Duration: m.Duration}
}
