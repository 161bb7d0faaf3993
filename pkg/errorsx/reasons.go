package errorsx

// ReasonCode is a short machine-readable error reason.
type ReasonCode string

const (
	ReasonUnknown ReasonCode = "unknown"

	// Response generation.
	ReasonLLMUnavailable ReasonCode = "llm_unavailable"
	ReasonLLMBadConfig   ReasonCode = "llm_bad_config"

	// Speech synthesis.
	ReasonTTSSynthesize ReasonCode = "tts_synthesize"
	ReasonTTSFallback   ReasonCode = "tts_fallback"
	ReasonTTSPlayback   ReasonCode = "tts_playback"

	// Transcription. A transcription error is a technical failure; silence
	// is an empty transcript, not an error.
	ReasonSTTTranscribe ReasonCode = "stt_transcribe"

	// Input handling.
	ReasonInputRejected ReasonCode = "input_rejected"
	ReasonRecordFailed  ReasonCode = "record_failed"

	// Session artifacts on disk.
	ReasonSessionStorage ReasonCode = "session_storage"
)
