package shared

// Task type names routed through the asynq queue.
const (
	TypeRecomputeAnnouncement    = "conference:recompute_announcement"
	TypeRecomputeFeaturedSpeaker = "session:recompute_featured_speaker"
	TypeSendConfirmationEmail    = "conference:send_confirmation_email"
)

// RecomputeFeaturedSpeakerPayload identifies the conference/speaker pair the
// featured-speaker recompute runs over. Keys are websafe tokens so the
// payload matches what the triggering API call received.
type RecomputeFeaturedSpeakerPayload struct {
	ConferenceKey string `json:"conferenceKey"`
	SpeakerKey    string `json:"speakerKey"`
}

// ConfirmationEmailPayload carries everything the email job needs so the
// worker never has to re-read the conference.
type ConfirmationEmailPayload struct {
	Email          string `json:"email"`
	ConferenceName string `json:"conferenceName"`
	City           string `json:"city"`
	StartDate      string `json:"startDate"`
}
