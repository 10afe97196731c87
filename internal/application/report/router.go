package report

import (
	"context"
	"fmt"

	"lucerna/internal/domain/notification"
	"lucerna/internal/domain/user"
	vo "lucerna/internal/domain/user/valueobjects"
	"lucerna/internal/infrastructure/email"
	"lucerna/internal/infrastructure/reporter"
	sharedConfig "lucerna/internal/shared/config"
	"lucerna/internal/shared/goroutine"
	"lucerna/internal/shared/logger"
)

// Router fans each lifecycle event out to the in-process notification
// record, the email dispatcher, and the reporter channels. Every channel
// has its own failure boundary; a delivery failure is logged and never
// reaches the domain operation that raised the event. Dispatch runs in the
// background so request handling never waits on a transport.
type Router struct {
	records    notification.NotificationRepository
	dispatcher *email.Dispatcher
	reporters  []reporter.Reporter
	notify     sharedConfig.NotifyConfig
	logger     logger.Interface

	// dispatchFn decouples event fanout from the caller. Tests replace it
	// with a synchronous version.
	dispatchFn func(name string, fn func(ctx context.Context))
}

func NewRouter(
	records notification.NotificationRepository,
	dispatcher *email.Dispatcher,
	reporters []reporter.Reporter,
	notify sharedConfig.NotifyConfig,
	logger logger.Interface,
) *Router {
	r := &Router{
		records:    records,
		dispatcher: dispatcher,
		reporters:  reporters,
		notify:     notify,
		logger:     logger,
	}
	r.dispatchFn = func(name string, fn func(ctx context.Context)) {
		goroutine.SafeGo(r.logger, fmt.Sprintf("report-%s", name), func() {
			fn(context.Background())
		})
	}
	return r
}

// StatusChange routes a transition into the given status. Only limited,
// expired, disabled, and active map to a trigger; callers are expected not
// to report re-entries into the same status.
func (r *Router) StatusChange(u *user.User, status vo.Status, by, reason *string) {
	if !r.notify.StatusChange {
		return
	}

	trigger, ok := statusTrigger(status)

	r.dispatch("status-change", func(ctx context.Context) {
		r.reportAll(ctx, reporter.Event{
			Kind:       reporter.KindStatusChange,
			Identifier: u.Identifier(),
			Status:     status.String(),
			By:         deref(by),
			Reason:     deref(reason),
		})

		if !ok {
			return
		}

		mc := email.MessageContext{}
		switch trigger {
		case notification.TriggerUserDisabled:
			mc.Actor = by
			mc.Reason = reason
		case notification.TriggerUserEnabled:
			mc.Actor = by
		}

		r.record(ctx, u, trigger, by, reason)
		r.dispatcher.Send(ctx, trigger, u, mc)
	})
}

func (r *Router) UserCreated(u *user.User, by *string) {
	if !r.notify.UserCreated {
		return
	}
	r.routeUserEvent("user-created", u, notification.TriggerUserCreated, reporter.KindUserCreated, by)
}

func (r *Router) UserUpdated(u *user.User, by *string) {
	if !r.notify.UserUpdated {
		return
	}
	r.routeUserEvent("user-updated", u, notification.TriggerUserUpdated, reporter.KindUserModified, by)
}

func (r *Router) UserDeleted(u *user.User, by *string) {
	if !r.notify.UserDeleted {
		return
	}
	r.routeUserEvent("user-deleted", u, notification.TriggerUserDeleted, reporter.KindUserDeleted, by)
}

func (r *Router) DataUsageReset(u *user.User, by *string) {
	if !r.notify.DataUsageReset {
		return
	}
	r.routeUserEvent("data-usage-reset", u, notification.TriggerDataUsageReset, reporter.KindUsageReset, by)
}

func (r *Router) DataResetByNext(u *user.User) {
	if !r.notify.DataUsageReset {
		return
	}
	r.routeUserEvent("data-reset-by-next", u, notification.TriggerDataResetByNext, reporter.KindUsageReset, nil)
}

func (r *Router) SubscriptionRevoked(u *user.User, by *string) {
	if !r.notify.SubscriptionRevoked {
		return
	}
	r.routeUserEvent("subscription-revoked", u, notification.TriggerSubscriptionRevoked, reporter.KindRevoked, by)
}

func (r *Router) UsagePercentReached(u *user.User, percent float64) {
	if !r.notify.UsagePercentReached {
		return
	}

	r.dispatch("usage-percent-reached", func(ctx context.Context) {
		r.record(ctx, u, notification.TriggerReachedUsagePercent, nil, nil)
		r.dispatcher.Send(ctx, notification.TriggerReachedUsagePercent, u, email.MessageContext{Percent: &percent})
	})
}

func (r *Router) DaysLeftReached(u *user.User, days int) {
	if !r.notify.DaysLeftReached {
		return
	}

	r.dispatch("days-left-reached", func(ctx context.Context) {
		r.record(ctx, u, notification.TriggerReachedDaysLeft, nil, nil)
		r.dispatcher.Send(ctx, notification.TriggerReachedDaysLeft, u, email.MessageContext{Days: &days})
	})
}

// LoginAttempt reports a portal sign-in attempt to the reporter channels.
// There is no email trigger or notification record for logins.
func (r *Router) LoginAttempt(identifier, clientIP string, success bool) {
	if !r.notify.LoginAttempt {
		return
	}

	r.dispatch("login-attempt", func(ctx context.Context) {
		r.reportAll(ctx, reporter.Event{
			Kind:       reporter.KindLoginAttempt,
			Identifier: identifier,
			ClientIP:   clientIP,
			Success:    success,
		})
	})
}

func (r *Router) routeUserEvent(name string, u *user.User, trigger notification.Trigger, kind reporter.Kind, by *string) {
	r.dispatch(name, func(ctx context.Context) {
		r.reportAll(ctx, reporter.Event{
			Kind:       kind,
			Identifier: u.Identifier(),
			By:         deref(by),
			DataLimit:  u.DataLimit(),
			ExpireAt:   u.ExpireAt(),
		})
		r.record(ctx, u, trigger, by, nil)
		r.dispatcher.Send(ctx, trigger, u, email.MessageContext{Actor: by})
	})
}

// dispatch runs fn off the caller's goroutine so the domain operation that
// raised the event returns without waiting on any transport.
func (r *Router) dispatch(name string, fn func(ctx context.Context)) {
	r.dispatchFn(name, fn)
}

// reportAll walks the reporter channels in sequence, each behind its own
// error boundary.
func (r *Router) reportAll(ctx context.Context, event reporter.Event) {
	for _, channel := range r.reporters {
		if err := channel.Report(ctx, event); err != nil {
			r.logger.Errorw("reporter channel failed",
				"error", err,
				"kind", string(event.Kind),
				"channel", fmt.Sprintf("%T", channel),
			)
		}
	}
}

func (r *Router) record(ctx context.Context, u *user.User, trigger notification.Trigger, actor, reason *string) {
	entity, err := notification.NewNotification(u.ID(), trigger, u.Username(), u.Email(), actor, reason)
	if err != nil {
		r.logger.Errorw("failed to build notification record", "error", err, "trigger", trigger.String())
		return
	}
	if err := r.records.Create(ctx, entity); err != nil {
		r.logger.Errorw("failed to store notification record", "error", err, "trigger", trigger.String())
	}
}

// statusTrigger maps a destination status to its trigger. Statuses outside
// the four notifying ones produce no trigger.
func statusTrigger(status vo.Status) (notification.Trigger, bool) {
	switch status {
	case vo.StatusLimited:
		return notification.TriggerUserLimited, true
	case vo.StatusExpired:
		return notification.TriggerUserExpired, true
	case vo.StatusDisabled:
		return notification.TriggerUserDisabled, true
	case vo.StatusActive:
		return notification.TriggerUserEnabled, true
	}
	return "", false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
