package cron

import (
	"context"

	"github.com/ThinhDang464/Tomchat/internal/jobs"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StartFriendshipCronJobs schedules the hourly repair pass over accepted
// friend requests.
func StartFriendshipCronJobs(reconciler *jobs.FriendshipReconciler) {
	c := cron.New()

	c.AddFunc("@hourly", func() {
		if err := reconciler.Run(context.Background()); err != nil {
			logrus.WithError(err).Error("Friendship reconciliation failed")
		}
	})

	c.Start()
}
