package domain

// Progress events emitted by the robot while it works through a play.
const (
	EventStart                    = "START"
	EventNearBall                 = "NEAR_BALL"
	EventAligned                  = "ALIGNED"
	EventBallKicked               = "BALL_KICKED"
	EventPositionCalculated       = "POSITION_CALCULATED"
	EventPositionReached          = "POSITION_REACHED"
	EventTrajectoryCalculated     = "TRAJECTORY_CALCULATED"
	EventInterceptPositionReached = "INTERCEPT_POSITION_REACHED"
)

// Outcome events. See DefaultSignals.
const (
	EventGoalScored          = "GOAL_SCORED"
	EventBallReceived        = "BALL_RECEIVED"
	EventBlockingEffective   = "BLOCKING_EFFECTIVE"
	EventBallIntercepted     = "BALL_INTERCEPTED"
	EventShotMissed          = "SHOT_MISSED"
	EventPassFailed          = "PASS_FAILED"
	EventBlockingIneffective = "BLOCKING_INEFFECTIVE"
	EventInterceptionMissed  = "INTERCEPTION_MISSED"
)
