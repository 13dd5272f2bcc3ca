package manager

import (
	"submitmgr/internal/model"
	"submitmgr/internal/notify"
)

const eventSource = "submitmgr/manager"

func eventBuilderFor(jobID int64) *notify.EventBuilder {
	return notify.NewEventBuilder(jobID, eventSource)
}

// callbackDestination builds the notify.Destination for a submission's
// owning job from its denormalized callback fields (spec §4.8: delivery
// targets the job's configured callback URL, a no-op when it has none).
func callbackDestination(sub model.MSubmission) notify.Destination {
	return notify.Destination{URL: sub.CallbackURL, SigningKey: sub.CallbackSigningKey}
}
