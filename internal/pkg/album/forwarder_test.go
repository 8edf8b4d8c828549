package album

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type fakeAPI struct {
	mu       sync.Mutex
	sent     []tgbotapi.MessageConfig
	groups   []tgbotapi.MediaGroupConfig
	groupErr error
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) SendMediaGroup(c tgbotapi.MediaGroupConfig) ([]tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.groupErr != nil {
		return nil, f.groupErr
	}
	f.groups = append(f.groups, c)
	return nil, nil
}

func (f *fakeAPI) sentMessages() []tgbotapi.MessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tgbotapi.MessageConfig(nil), f.sent...)
}

func (f *fakeAPI) mediaGroups() []tgbotapi.MediaGroupConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tgbotapi.MediaGroupConfig(nil), f.groups...)
}

func newTestForwarder(api API) *Forwarder {
	f := NewForwarder(api)
	f.wait = 50 * time.Millisecond
	f.Start()
	return f
}

func waitDrained(t *testing.T, f *Forwarder) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if f.pendingGroups() == 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("media groups not drained, %d left", f.pendingGroups())
}

const originChatID int64 = 1001

func photoMessage(groupID, fileID string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MediaGroupID: groupID,
		Chat:         &tgbotapi.Chat{ID: originChatID, Type: "private", FirstName: "Петр"},
		Photo: []tgbotapi.PhotoSize{
			{FileID: fileID, FileSize: 100},
		},
	}
}

func locationMessage(groupID string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MediaGroupID: groupID,
		Chat:         &tgbotapi.Chat{ID: originChatID, Type: "private", FirstName: "Петр"},
		Location:     &tgbotapi.Location{Latitude: 1, Longitude: 2},
	}
}

func photoFileID(t *testing.T, entry interface{}) string {
	t.Helper()
	photo, ok := entry.(tgbotapi.InputMediaPhoto)
	if !ok {
		t.Fatalf("expected InputMediaPhoto, got %T", entry)
	}
	fileID, ok := photo.Media.(tgbotapi.FileID)
	if !ok {
		t.Fatalf("expected FileID media, got %T", photo.Media)
	}
	return string(fileID)
}

func TestForwarderSingleAlbum(t *testing.T) {
	api := &fakeAPI{}
	f := newTestForwarder(api)

	const destChatID int64 = 42
	if err := f.AddMessage(photoMessage("g1", "photo-a"), destChatID, true); err != nil {
		t.Fatalf("AddMessage: %v", err)
	}
	if err := f.AddMessage(photoMessage("g1", "photo-b"), 0, false); err != nil {
		t.Fatalf("AddMessage: %v", err)
	}
	if err := f.AddMessage(locationMessage("g1"), 0, false); err != nil {
		t.Fatalf("AddMessage: %v", err)
	}
	waitDrained(t, f)

	groups := api.mediaGroups()
	if len(groups) != 1 {
		t.Fatalf("expected 1 media group, got %d", len(groups))
	}
	if groups[0].ChatID != destChatID {
		t.Fatalf("expected media group for chat %d, got %d", destChatID, groups[0].ChatID)
	}
	if len(groups[0].Media) != 2 {
		t.Fatalf("expected 2 media entries, got %d", len(groups[0].Media))
	}

	sent := api.sentMessages()
	if len(sent) != 2 {
		t.Fatalf("expected from info and confirmation, got %d messages", len(sent))
	}
	if sent[0].ChatID != destChatID || !strings.HasPrefix(sent[0].Text, "От ") {
		t.Fatalf("expected from info to %d, got %q to %d", destChatID, sent[0].Text, sent[0].ChatID)
	}
	if sent[0].ParseMode != tgbotapi.ModeHTML {
		t.Fatalf("expected HTML from info, got %q", sent[0].ParseMode)
	}
	if sent[1].ChatID != originChatID || sent[1].Text != "Переслано элементов группы: 2" {
		t.Fatalf("unexpected confirmation %q to %d", sent[1].Text, sent[1].ChatID)
	}
}

func TestForwarderOrdering(t *testing.T) {
	api := &fakeAPI{}
	f := newTestForwarder(api)

	for _, fileID := range []string{"a", "b", "c"} {
		chatID := int64(0)
		if fileID == "a" {
			chatID = 42
		}
		if err := f.AddMessage(photoMessage("g-order", fileID), chatID, false); err != nil {
			t.Fatalf("AddMessage %q: %v", fileID, err)
		}
	}
	waitDrained(t, f)

	groups := api.mediaGroups()
	if len(groups) != 1 {
		t.Fatalf("expected 1 media group, got %d", len(groups))
	}
	for i, want := range []string{"a", "b", "c"} {
		if got := photoFileID(t, groups[0].Media[i]); got != want {
			t.Fatalf("media[%d] = %q, want %q", i, got, want)
		}
	}
}

func TestForwarderSingleTaskPerGroup(t *testing.T) {
	api := &fakeAPI{}
	f := newTestForwarder(api)

	for i := 0; i < 8; i++ {
		chatID := int64(0)
		if i == 0 {
			chatID = 42
		}
		msg := photoMessage("g-many", fmt.Sprintf("p%d", i))
		if err := f.AddMessage(msg, chatID, false); err != nil {
			t.Fatalf("AddMessage %d: %v", i, err)
		}
	}
	waitDrained(t, f)

	groups := api.mediaGroups()
	if len(groups) != 1 {
		t.Fatalf("expected single media group send, got %d", len(groups))
	}
	if len(groups[0].Media) != 8 {
		t.Fatalf("expected 8 media entries, got %d", len(groups[0].Media))
	}
}

func TestForwarderRouteFixedByFirstItem(t *testing.T) {
	api := &fakeAPI{}
	f := newTestForwarder(api)

	if err := f.AddMessage(photoMessage("g-route", "a"), 42, false); err != nil {
		t.Fatalf("AddMessage: %v", err)
	}
	// Назначение и флаг подписи поздних элементов игнорируются.
	if err := f.AddMessage(photoMessage("g-route", "b"), 777, true); err != nil {
		t.Fatalf("AddMessage: %v", err)
	}
	waitDrained(t, f)

	groups := api.mediaGroups()
	if len(groups) != 1 || groups[0].ChatID != 42 {
		t.Fatalf("expected media group to chat 42, got %+v", groups)
	}
	sent := api.sentMessages()
	if len(sent) != 1 {
		t.Fatalf("expected only confirmation, got %d messages", len(sent))
	}
}

func TestForwarderLatecomerDropped(t *testing.T) {
	api := &fakeAPI{}
	f := newTestForwarder(api)

	if err := f.AddMessage(photoMessage("g-late", "a"), 0, false); err != nil {
		t.Fatalf("AddMessage: %v", err)
	}
	if f.pendingGroups() != 0 {
		t.Fatalf("latecomer must not create a session")
	}

	time.Sleep(150 * time.Millisecond)
	if len(api.mediaGroups()) != 0 || len(api.sentMessages()) != 0 {
		t.Fatalf("latecomer must not produce sends")
	}
}

func TestForwarderNewSessionAfterDrain(t *testing.T) {
	api := &fakeAPI{}
	f := newTestForwarder(api)

	if err := f.AddMessage(photoMessage("g-redo", "a"), 42, false); err != nil {
		t.Fatalf("AddMessage: %v", err)
	}
	waitDrained(t, f)

	// Группа собрана, тот же идентификатор с назначением открывает
	// новую сборку.
	if err := f.AddMessage(photoMessage("g-redo", "b"), 42, false); err != nil {
		t.Fatalf("AddMessage: %v", err)
	}
	waitDrained(t, f)

	if got := len(api.mediaGroups()); got != 2 {
		t.Fatalf("expected 2 media groups, got %d", got)
	}
}

func TestForwarderLargestPhotoVariant(t *testing.T) {
	api := &fakeAPI{}
	f := newTestForwarder(api)

	msg := &tgbotapi.Message{
		MediaGroupID: "g-sizes",
		Chat:         &tgbotapi.Chat{ID: originChatID, Type: "private", FirstName: "Петр"},
		Photo: []tgbotapi.PhotoSize{
			{FileID: "small", FileSize: 90},
			{FileID: "large", FileSize: 900},
			{FileID: "medium", FileSize: 300},
		},
	}
	if err := f.AddMessage(msg, 42, false); err != nil {
		t.Fatalf("AddMessage: %v", err)
	}
	waitDrained(t, f)

	groups := api.mediaGroups()
	if len(groups) != 1 {
		t.Fatalf("expected 1 media group, got %d", len(groups))
	}
	if got := photoFileID(t, groups[0].Media[0]); got != "large" {
		t.Fatalf("expected largest variant, got %q", got)
	}
}

func TestForwarderUnsupportedOnly(t *testing.T) {
	api := &fakeAPI{}
	f := newTestForwarder(api)

	if err := f.AddMessage(locationMessage("g2"), 42, false); err != nil {
		t.Fatalf("AddMessage: %v", err)
	}
	if err := f.AddMessage(locationMessage("g2"), 0, false); err != nil {
		t.Fatalf("AddMessage: %v", err)
	}
	waitDrained(t, f)

	if len(api.mediaGroups()) != 0 {
		t.Fatalf("unsupported items must not produce a media group")
	}
	sent := api.sentMessages()
	if len(sent) != 1 {
		t.Fatalf("expected single notice, got %d messages", len(sent))
	}
	if sent[0].ChatID != originChatID ||
		sent[0].Text != "Не удалось переслать элементов неподдерживаемого типа: 2" {
		t.Fatalf("unexpected notice %q to %d", sent[0].Text, sent[0].ChatID)
	}
}

func TestForwarderMixedKindsMetadata(t *testing.T) {
	api := &fakeAPI{}
	f := newTestForwarder(api)

	audio := &tgbotapi.Message{
		MediaGroupID: "g-kinds",
		Chat:         &tgbotapi.Chat{ID: originChatID, Type: "private", FirstName: "Петр"},
		Caption:      "подпись",
		CaptionEntities: []tgbotapi.MessageEntity{
			{Type: "bold", Offset: 0, Length: 7},
		},
		Audio: &tgbotapi.Audio{
			FileID: "audio-1", Duration: 30, Performer: "Исполнитель", Title: "Трек",
		},
	}
	video := &tgbotapi.Message{
		MediaGroupID: "g-kinds",
		Chat:         &tgbotapi.Chat{ID: originChatID, Type: "private", FirstName: "Петр"},
		Video:        &tgbotapi.Video{FileID: "video-1", Width: 640, Height: 480, Duration: 5},
	}
	document := &tgbotapi.Message{
		MediaGroupID: "g-kinds",
		Chat:         &tgbotapi.Chat{ID: originChatID, Type: "private", FirstName: "Петр"},
		Document:     &tgbotapi.Document{FileID: "doc-1"},
	}

	if err := f.AddMessage(audio, 42, false); err != nil {
		t.Fatalf("AddMessage: %v", err)
	}
	if err := f.AddMessage(video, 0, false); err != nil {
		t.Fatalf("AddMessage: %v", err)
	}
	if err := f.AddMessage(document, 0, false); err != nil {
		t.Fatalf("AddMessage: %v", err)
	}
	waitDrained(t, f)

	groups := api.mediaGroups()
	if len(groups) != 1 || len(groups[0].Media) != 3 {
		t.Fatalf("expected 1 media group with 3 entries, got %+v", groups)
	}

	gotAudio, ok := groups[0].Media[0].(tgbotapi.InputMediaAudio)
	if !ok {
		t.Fatalf("expected InputMediaAudio, got %T", groups[0].Media[0])
	}
	if gotAudio.Caption != "подпись" || len(gotAudio.CaptionEntities) != 1 {
		t.Fatalf("audio caption not carried over: %+v", gotAudio)
	}
	if gotAudio.Duration != 30 || gotAudio.Performer != "Исполнитель" || gotAudio.Title != "Трек" {
		t.Fatalf("audio metadata not carried over: %+v", gotAudio)
	}

	gotVideo, ok := groups[0].Media[1].(tgbotapi.InputMediaVideo)
	if !ok {
		t.Fatalf("expected InputMediaVideo, got %T", groups[0].Media[1])
	}
	if gotVideo.Width != 640 || gotVideo.Height != 480 || gotVideo.Duration != 5 {
		t.Fatalf("video metadata not carried over: %+v", gotVideo)
	}

	if _, ok := groups[0].Media[2].(tgbotapi.InputMediaDocument); !ok {
		t.Fatalf("expected InputMediaDocument, got %T", groups[0].Media[2])
	}
}

func TestForwarderCleanupAfterSendError(t *testing.T) {
	api := &fakeAPI{groupErr: errors.New("telegram unavailable")}
	f := newTestForwarder(api)

	if err := f.AddMessage(photoMessage("g-err", "a"), 42, false); err != nil {
		t.Fatalf("AddMessage: %v", err)
	}
	waitDrained(t, f)

	if err := f.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestForwarderStopInterruptsWait(t *testing.T) {
	api := &fakeAPI{}
	f := NewForwarder(api)
	f.wait = 10 * time.Second
	f.Start()

	if err := f.AddMessage(photoMessage("g-stop", "a"), 42, false); err != nil {
		t.Fatalf("AddMessage: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- f.Stop() }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not interrupt waiting assembly task")
	}

	if f.pendingGroups() != 0 {
		t.Fatalf("expected empty session map after stop")
	}
	if len(api.mediaGroups()) != 0 {
		t.Fatalf("interrupted group must not be flushed")
	}
}

func TestForwarderPreconditions(t *testing.T) {
	t.Parallel()

	f := NewForwarder(&fakeAPI{})
	if err := f.AddMessage(photoMessage("g", "a"), 42, false); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("expected ErrNotStarted, got %v", err)
	}
	if err := f.Stop(); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("expected ErrNotStarted, got %v", err)
	}

	f.Start()
	noGroup := &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: originChatID, Type: "private"}}
	if err := f.AddMessage(noGroup, 42, false); !errors.Is(err, ErrNoMediaGroupID) {
		t.Fatalf("expected ErrNoMediaGroupID, got %v", err)
	}
	if err := f.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}
