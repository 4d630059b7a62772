package api

// swagger:model api.CreateGoalRequest
type CreateGoalRequest struct {
	GoalName     string `form:"goal_name" validate:"required" example:"house deposit"`
	TargetAmount string `form:"target_amount" validate:"required" example:"900000"`
	LockUntil    string `form:"lock_until" validate:"required" example:"2026-03-01T00:00:00Z"`
}
