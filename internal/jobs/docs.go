// Package jobs provides scheduled background tasks for the dispatch service.
//
// Jobs use github.com/robfig/cron/v3 with a leading seconds field.
//
// # Available Jobs
//
// 1. OfferExpiryJob - times out partner offers whose response deadline has passed.
// It backs up the cascade that made the offer, which enforces the deadline itself
// while it is alive.
//
// # Usage
//
//	manager := jobs.NewJobManager().
//		Add("offer expiry", jobs.NewOfferExpiryJob(expireHandler, metrics, cfg.OfferSweepSpec, logger))
//
//	if err := manager.StartAll(); err != nil {
//		return err
//	}
//	defer manager.StopAll()
//
// # Error Handling
//
// A sweep that fails on some offers logs the joined error and keeps the count of
// the offers it did time out. Failed job starts stop the jobs already running.
package jobs
