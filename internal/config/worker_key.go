package config

type WorkerKeyStruct struct {
	PersistRoundsQueue string
	RoundFeedChannel   string
}

var WorkerKey = &WorkerKeyStruct{
	PersistRoundsQueue: "persist_rounds_queue",
	RoundFeedChannel:   "game:rounds:finished",
}
