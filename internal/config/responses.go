package config

import "strings"

// ResponseKey names a response template.
type ResponseKey string

const (
	YouAreNotInEvent             ResponseKey = "you_are_not_in_event"
	YouAreAlreadyInQueue         ResponseKey = "you_are_already_in_queue"
	YouAreAddedInQueueWithNumber ResponseKey = "you_are_added_in_queue_with_number"
	LogEmpty                     ResponseKey = "log_empty"
	QueueIsEmptyForUser          ResponseKey = "queue_is_empty_for_user"
	QueueIsEmptyForGuild         ResponseKey = "queue_is_empty_for_guild"
	ListItem                     ResponseKey = "list_item"
	ListItemComment              ResponseKey = "list_item_comment"
	ListDelimiter                ResponseKey = "list_delimiter"
	YourPerformanceIsSkipped     ResponseKey = "your_performance_is_skipped"
	SkipArtistPerformance        ResponseKey = "skip_artist_performance"
	SkipArtistPerformanceComment ResponseKey = "skip_artist_performance_comment"
	YouAreNotInQueue             ResponseKey = "you_are_not_in_queue"
	UserNotInQueue               ResponseKey = "user_not_in_queue"
	EventHasBeenStopped          ResponseKey = "event_has_been_stopped"
	EventHasBeenStarted          ResponseKey = "event_has_been_started"
	YourPerformanceStartsNow     ResponseKey = "your_performance_starts_now"
	StartArtistPerformance       ResponseKey = "start_artist_performance"
	ArtistComment                ResponseKey = "artist_comment"
	NextPerformanceIsYours       ResponseKey = "next_performance_is_yours"
	NextArtistPerformance        ResponseKey = "next_artist_performance"
	YourPerformanceIsFinished    ResponseKey = "your_performance_is_finished"
	FinishArtistPerformance      ResponseKey = "finish_artist_performance"
	YouHaveToBeReadyToPerform    ResponseKey = "you_have_to_be_ready_to_perform"
	BeReadyArtistPerformance     ResponseKey = "be_ready_artist_performance"
	NowPerforming                ResponseKey = "now_performing"
	EventIsNotRunning            ResponseKey = "event_is_not_running"
	UnknownCommand               ResponseKey = "unknown_command"
	CommandFailed                ResponseKey = "command_failed"
	HistoryEmpty                 ResponseKey = "history_empty"
)

var defaultResponses = map[ResponseKey]string{
	YouAreNotInEvent:             "Join {channel} first, then ask me again.",
	YouAreAlreadyInQueue:         "You are already in the queue, your number is {index}!",
	YouAreAddedInQueueWithNumber: "You have been added to the queue, your number is {index}!",
	LogEmpty:                     "Nobody has performed yet.",
	QueueIsEmptyForUser:          "The queue is empty. You can be the first!",
	QueueIsEmptyForGuild:         "The queue is empty!",
	ListItem:                     "{index}. {user}{comment}",
	ListItemComment:              " ({comment})",
	ListDelimiter:                "\n",
	YourPerformanceIsSkipped:     "Your performance has been skipped{comment}.",
	SkipArtistPerformance:        "{user} has been skipped{comment}.",
	SkipArtistPerformanceComment: ", reason: {comment}",
	YouAreNotInQueue:             "You are not in the queue.",
	UserNotInQueue:               "This user is not in the queue.",
	EventHasBeenStopped:          "The event has been stopped.",
	EventHasBeenStarted:          "The event has been started.",
	YourPerformanceStartsNow:     "Your performance starts now, the mic is yours!",
	StartArtistPerformance:       "Now performing: {user}{comment}",
	ArtistComment:                " with {comment}",
	NextPerformanceIsYours:       "You are next, get ready!",
	NextArtistPerformance:        "Next up: {user}{comment}",
	YourPerformanceIsFinished:    "Thank you for your performance!",
	FinishArtistPerformance:      "{user} has finished{comment}. Applause!",
	YouHaveToBeReadyToPerform:    "Your turn is now, be ready to perform!",
	BeReadyArtistPerformance:     "Be ready: {user}{comment}",
	NowPerforming:                "{user} is performing for you.",
	EventIsNotRunning:            "The event is not running right now.",
	UnknownCommand:               "Unknown command. Did you mean {command}?",
	CommandFailed:                "Something went wrong while processing the command.",
	HistoryEmpty:                 "No commands recorded yet.",
}

// ResponseKeys lists every known response key.
func ResponseKeys() []ResponseKey {
	keys := make([]ResponseKey, 0, len(defaultResponses))
	for k := range defaultResponses {
		keys = append(keys, k)
	}
	return keys
}

// Responses maps a response key to its template. Templates use {name}
// placeholders.
type Responses map[string]string

// Get returns the configured template, falling back to the built-in default.
func (r Responses) Get(key ResponseKey) string {
	if t, ok := r[string(key)]; ok {
		return t
	}
	return defaultResponses[key]
}

// Format fills the template for key. args are placeholder/value pairs;
// placeholders without a value are left as they are.
func (r Responses) Format(key ResponseKey, args ...string) string {
	return Fill(r.Get(key), args...)
}

// Fill replaces {name} placeholders in tmpl. args are name/value pairs.
func Fill(tmpl string, args ...string) string {
	if len(args) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, len(args))
	for i := 0; i+1 < len(args); i += 2 {
		pairs = append(pairs, "{"+args[i]+"}", args[i+1])
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
