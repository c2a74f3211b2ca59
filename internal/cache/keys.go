package cache

import "fmt"

const (
	POST_KEY = "post:%d" // <postID>
	POST_COMMENTS_KEY = "post:%d-comments:%d:%d" // <postID>:<limit>:<offset>
	AUTHOR_POSTS_KEY = "author:%s-posts:%d:%d" // <authorID>:<limit>:<offset>
	TRENDING_POSTS_KEY = "trending-posts:%d:%d" // <hours>:<limit>
	TAGS_KEY = "tags:%d:%d" // <limit>:<offset>
	TAG_KEY = "tag:%s" // <name>
	USER_CACHE_KEY = "user-cache:%s" // <userID>
	DASHBOARD_KEY = "dashboard:%s" // <userID>
)

func PostKey(postID int64) string {
	return fmt.Sprintf(POST_KEY, postID)
}

func PostKeysPattern(postID int64) string {
	return fmt.Sprintf("post:%d*", postID)
}

func PostCommentsKey(postID int64, limit int, offset int) string {
	return fmt.Sprintf(POST_COMMENTS_KEY, postID, limit, offset)
}

func PostCommentsPattern(postID int64) string {
	return fmt.Sprintf("post:%d-comments*", postID)
}

func AuthorPostsKey(authorID string, limit int, offset int) string {
	return fmt.Sprintf(AUTHOR_POSTS_KEY, authorID, limit, offset)
}

func AuthorPostsPattern(authorID string) string {
	return fmt.Sprintf("author:%s-posts*", authorID)
}

func TrendingPostsKey(hours int, limit int) string {
	return fmt.Sprintf(TRENDING_POSTS_KEY, hours, limit)
}

func TagsKey(limit int, offset int) string {
	return fmt.Sprintf(TAGS_KEY, limit, offset)
}

func TagKey(name string) string {
	return fmt.Sprintf(TAG_KEY, name)
}

func TagsPattern() string {
	return "tag*"
}

func UserCacheKey(userID string) string {
	return fmt.Sprintf(USER_CACHE_KEY, userID)
}

func DashboardKey(userID string) string {
	return fmt.Sprintf(DASHBOARD_KEY, userID)
}
