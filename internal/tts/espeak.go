// Package tts voices replies through espeak-ng.
package tts

/*
#cgo LDFLAGS: -lespeak-ng
#include <stdlib.h>
#include <espeak-ng/speak_lib.h>

int
espeak_say(const char *text, const char *voice, int rate)
{
	if (!text || !voice)
	{ return -1; }

	if (espeak_Initialize(AUDIO_OUTPUT_SYNCH_PLAYBACK, 500, NULL, 0) < 0)
	{ return -2; }

	espeak_VOICE specs = { .languages = voice };
	espeak_SetVoiceByProperties(&specs);
	if (rate > 0)
	{ espeak_SetParameter(espeakRATE, rate, 0); }

	espeak_Synth(text, 500, 0, 0, 0, espeakCHARS_AUTO, NULL, NULL);
	espeak_Synchronize();
	espeak_Terminate();

	return 0;
}
*/
import "C"

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unsafe"
)

// espeak keeps global state; one utterance at a time.
var mu sync.Mutex

// Speak says text with the given espeak-ng voice (a language code such
// as "en" or "ru"). rate is words per minute, 0 keeps the default.
func Speak(voice, text string, rate int) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if voice == "" {
		voice = "en"
	}

	mu.Lock()
	defer mu.Unlock()

	ctext := C.CString(text)
	defer C.free(unsafe.Pointer(ctext))
	cvoice := C.CString(voice)
	defer C.free(unsafe.Pointer(cvoice))

	rc := C.espeak_say(ctext, cvoice, C.int(rate))
	if rc != 0 {
		return fmt.Errorf("espeak_say failed: %d", int(rc))
	}
	return nil
}

// Speaker is a reply sink that talks.
type Speaker struct {
	Voice string
	Rate  int
}

// Say blocks until the text has been spoken. Synthesis cannot be
// interrupted; ctx is only checked before starting.
func (s Speaker) Say(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return Speak(s.Voice, text, s.Rate)
}
