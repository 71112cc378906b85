package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/celestiq/interviewer/config"
)

// VoiceService converts questions to audio and candidate recordings to
// text. Both directions are best-effort; the interview itself carries
// on over text when the voice channel is unavailable.
type VoiceService interface {
	Speak(ctx context.Context, text string) ([]byte, error)
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
	Close() error
}

type googleVoiceService struct {
	tts        *texttospeech.Client
	stt        *speech.Client
	cfg        *config.Config
	maxRetries int
}

func NewVoiceService(cfg *config.Config) (VoiceService, error) {
	ctx := context.Background()

	ttsClient, err := texttospeech.NewClient(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Text-to-Speech client unavailable. Questions will be text-only.")
		ttsClient = nil
	}
	sttClient, err := speech.NewClient(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Speech-to-Text client unavailable. Audio answers will be rejected.")
		sttClient = nil
	}

	return &googleVoiceService{
		tts:        ttsClient,
		stt:        sttClient,
		cfg:        cfg,
		maxRetries: 3,
	}, nil
}

func (v *googleVoiceService) Close() error {
	if v.tts != nil {
		if err := v.tts.Close(); err != nil {
			return err
		}
	}
	if v.stt != nil {
		return v.stt.Close()
	}
	return nil
}

// Speak synthesizes the question as MP3 audio.
func (v *googleVoiceService) Speak(ctx context.Context, text string) ([]byte, error) {
	if v.tts == nil {
		return nil, fmt.Errorf("text-to-speech client not initialized")
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("nothing to synthesize")
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req := &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: v.cfg.Voice.LanguageCode,
			Name:         v.cfg.Voice.Name,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
		},
	}

	resp, err := v.tts.SynthesizeSpeech(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("synthesize speech: %w", err)
	}
	return resp.AudioContent, nil
}

// Transcribe runs synchronous recognition over a short answer clip.
// Transient gRPC failures are retried with exponential backoff.
func (v *googleVoiceService) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if v.stt == nil {
		return "", fmt.Errorf("speech-to-text client not initialized")
	}
	if len(audio) == 0 {
		return "", fmt.Errorf("empty audio payload")
	}

	timeout := time.Duration(v.cfg.Voice.ListenTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			LanguageCode:               v.cfg.Voice.LanguageCode,
			Encoding:                   inferAudioEncoding(mimeType),
			EnableAutomaticPunctuation: true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	}

	resp, err := v.retryRecognize(ctx, req)
	if err != nil {
		return "", fmt.Errorf("speech recognize: %w", err)
	}

	var full strings.Builder
	for _, r := range resp.Results {
		if r == nil || len(r.Alternatives) == 0 || r.Alternatives[0] == nil {
			continue
		}
		t := strings.TrimSpace(r.Alternatives[0].Transcript)
		if t == "" {
			continue
		}
		if full.Len() > 0 {
			full.WriteString(" ")
		}
		full.WriteString(t)
	}
	return full.String(), nil
}

func (v *googleVoiceService) retryRecognize(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
	backoff := 500 * time.Millisecond
	var last error
	for attempt := 0; attempt <= v.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		resp, err := v.stt.Recognize(ctx, req)
		if err == nil {
			return resp, nil
		}
		last = err

		code := status.Code(err)
		if code != codes.Unavailable && code != codes.ResourceExhausted {
			return nil, err
		}
		if attempt == v.maxRetries {
			break
		}
		log.Warn().Err(err).Int("attempt", attempt+1).Msg("Transient speech API error, retrying")
		time.Sleep(backoff)
		backoff *= 2
	}
	return nil, last
}

func inferAudioEncoding(mimeType string) speechpb.RecognitionConfig_AudioEncoding {
	m := strings.ToLower(strings.TrimSpace(mimeType))
	switch {
	case strings.Contains(m, "wav"):
		return speechpb.RecognitionConfig_LINEAR16
	case strings.Contains(m, "flac"):
		return speechpb.RecognitionConfig_FLAC
	case strings.Contains(m, "mp3") || strings.Contains(m, "mpeg"):
		return speechpb.RecognitionConfig_MP3
	case strings.Contains(m, "ogg") || strings.Contains(m, "opus"):
		return speechpb.RecognitionConfig_OGG_OPUS
	case strings.Contains(m, "webm"):
		return speechpb.RecognitionConfig_WEBM_OPUS
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED
	}
}
