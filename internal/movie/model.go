package movie

// DefaultReview 是新建电影条目时的占位评论
const DefaultReview = "Add entry"

// Movie 定义了数据库中电影的数据结构
type Movie struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Title 在整张表中唯一
	Title string `gorm:"size:250;uniqueIndex;not null" json:"title"`

	Year int `gorm:"not null" json:"year"`

	Description string `gorm:"size:500;not null" json:"description"`

	// Rating 是用户打分，新建时为 0
	Rating float64 `gorm:"not null;default:0" json:"rating"`

	// Ranking 在列表读取时按评分顺序重新计算，只有开启 ranking.persist 时才写回数据库
	Ranking int `json:"ranking"`

	Review string `gorm:"size:250;not null" json:"review"`

	// ImgURL 由图片基础地址和TMDB返回的海报路径拼接而成
	ImgURL string `gorm:"column:img_url;size:250;not null" json:"imgUrl"`
}

// TableName 固定表名为 movies
func (Movie) TableName() string {
	return "movies"
}

// NewDraft 构造一条处于“草稿”状态的电影记录：评分为 0，评论为占位文本。
func NewDraft(title string, year int, overview, imageBaseURL, imagePath string) *Movie {
	return &Movie{
		Title:       title,
		Year:        year,
		Description: overview,
		Rating:      0,
		Ranking:     0,
		Review:      DefaultReview,
		ImgURL:      imageBaseURL + imagePath,
	}
}
