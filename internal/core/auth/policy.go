package auth

import "github.com/taskhub/taskhub-api/internal/core/domain"

// Policy decides whether a principal may mutate a resource. Only owners may
// update or delete; reads are not gated here.
type Policy struct{}

func NewPolicy() Policy {
	return Policy{}
}

// CanModifyUser reports whether p may update or delete the user targetUserID.
func (Policy) CanModifyUser(p domain.Principal, targetUserID int64) bool {
	return p.ID == targetUserID
}

// CanModifyTask reports whether p may update or delete a task owned by taskOwnerID.
func (Policy) CanModifyTask(p domain.Principal, taskOwnerID int64) bool {
	return p.ID == taskOwnerID
}
