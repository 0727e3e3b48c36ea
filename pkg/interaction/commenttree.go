package interaction

import "github.com/sori-music/backend/internal/models"

// ThreadedComment is a top-level comment with its replies attached.
type ThreadedComment struct {
	models.Comment
	Replies []models.Comment `json:"replies"`
}

// BuildCommentTree partitions a flat, newest-first comment list into
// top-level comments with one level of replies. A reply whose parent is
// itself a reply does not match any top-level ID and is dropped from the
// tree; reply nesting is a flat, one-level product constraint.
func BuildCommentTree(comments []models.Comment) []ThreadedComment {
	tree := make([]ThreadedComment, 0)
	for _, c := range comments {
		if c.ParentID == nil {
			tree = append(tree, ThreadedComment{Comment: c, Replies: []models.Comment{}})
		}
	}
	for _, c := range comments {
		if c.ParentID == nil {
			continue
		}
		for i := range tree {
			if tree[i].ID == *c.ParentID {
				tree[i].Replies = append(tree[i].Replies, c)
				break
			}
		}
	}
	return tree
}

// SpliceComment inserts a freshly created comment at the head of the right
// list without a refetch: the parent's reply list for a reply, the top-level
// list otherwise. A reply whose parent is not in the tree is dropped,
// mirroring BuildCommentTree.
func SpliceComment(tree []ThreadedComment, comment models.Comment) []ThreadedComment {
	if comment.ParentID == nil {
		return append([]ThreadedComment{{Comment: comment, Replies: []models.Comment{}}}, tree...)
	}
	for i := range tree {
		if tree[i].ID == *comment.ParentID {
			tree[i].Replies = append([]models.Comment{comment}, tree[i].Replies...)
			break
		}
	}
	return tree
}

// RemoveComment deletes a comment from whichever level contains it,
// scanning top-level entries first and then every reply list.
func RemoveComment(tree []ThreadedComment, id uint) []ThreadedComment {
	for i := range tree {
		if tree[i].ID == id {
			return append(tree[:i], tree[i+1:]...)
		}
	}
	for i := range tree {
		for j := range tree[i].Replies {
			if tree[i].Replies[j].ID == id {
				tree[i].Replies = append(tree[i].Replies[:j], tree[i].Replies[j+1:]...)
				return tree
			}
		}
	}
	return tree
}
