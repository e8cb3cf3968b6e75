package service

import "studio-site/internal/data"

// CommentNode is a top-level comment with its replies. Orphan is set when
// the comment answers a parent that is not part of the set.
type CommentNode struct {
	Comment *data.Comment
	Replies []*data.Comment
	Orphan  bool
}

// BuildCommentTree groups a flat list of comments into threads, keeping the
// input order. A reply is attached to the top-most ancestor present in the
// list. A reply whose parent is missing becomes a top-level orphan.
func BuildCommentTree(comments []*data.Comment) []*CommentNode {
	byID := make(map[int64]*data.Comment, len(comments))
	for _, c := range comments {
		byID[c.ID] = c
	}

	nodes := make(map[int64]*CommentNode, len(comments))
	var roots []*CommentNode
	var replies []*data.Comment
	for _, c := range comments {
		if c.ParentID == nil {
			node := &CommentNode{Comment: c}
			nodes[c.ID] = node
			roots = append(roots, node)
			continue
		}
		if _, ok := byID[*c.ParentID]; !ok {
			node := &CommentNode{Comment: c, Orphan: true}
			nodes[c.ID] = node
			roots = append(roots, node)
			continue
		}
		replies = append(replies, c)
	}

	for _, c := range replies {
		if node := nodes[topAncestor(c, byID)]; node != nil {
			node.Replies = append(node.Replies, c)
			continue
		}
		// The parent chain loops back on itself.
		node := &CommentNode{Comment: c, Orphan: true}
		nodes[c.ID] = node
		roots = append(roots, node)
	}
	return roots
}

// topAncestor follows parent links while the parent is present and returns
// the ID of the last comment reached, or 0 on a cycle.
func topAncestor(c *data.Comment, byID map[int64]*data.Comment) int64 {
	seen := map[int64]bool{c.ID: true}
	current := c
	for current.ParentID != nil {
		parent, ok := byID[*current.ParentID]
		if !ok {
			break
		}
		if seen[parent.ID] {
			return 0
		}
		seen[parent.ID] = true
		current = parent
	}
	return current.ID
}
