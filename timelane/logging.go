package timelane

const (
	logMsgRecord = "timelane record"

	logAttrRecordKind     = "record_kind"
	logAttrVersion        = "version"
	logAttrLane           = "lane"
	logAttrSubscriptionID = "subscription_id"
	logAttrSource         = "source"
	logAttrEventType      = "event_type"
	logAttrValue          = "value"
	logAttrState          = "state"
	logAttrError          = "error"
	logAttrMessage        = "message"
	logAttrSignpost       = "signpost"
)

const (
	metricSubscriptionsStarted  = "timelane_subscriptions_started_total"
	metricSubscriptionsFinished = "timelane_subscriptions_finished_total"
	metricEvents                = "timelane_events_total"
	metricSubscriptionDuration  = "timelane_subscription_duration_seconds"
	metricActiveSubscriptions   = "timelane_active_subscriptions"
)

const (
	spanNameSubscription = "timelane.subscription"

	spanAttrLane           = "lane"
	spanAttrSource         = "source"
	spanAttrSubscriptionID = "subscription_id"
	spanAttrEventCount     = "event_count"
	spanAttrError          = "error"
)
