package album

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"feedback_bot/internal/pkg/scheduler"
	"feedback_bot/internal/pkg/tghtml"
)

// DefaultWaitTimeout — пауза без новых элементов, после которой альбом
// считается полностью полученным. Секунды хватает: Telegram отдает
// элементы одной медиагруппы почти подряд.
const DefaultWaitTimeout = time.Second

// queueCap с запасом больше максимального размера альбома в Telegram (10).
const queueCap = 100

var (
	ErrNotStarted     = errors.New("album forwarder not started")
	ErrNoMediaGroupID = errors.New("message in album must have media group id")
)

// API — часть Telegram Bot API, нужная форвардеру.
// *tgbotapi.BotAPI ей удовлетворяет.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	SendMediaGroup(config tgbotapi.MediaGroupConfig) ([]tgbotapi.Message, error)
}

// Forwarder собирает элементы медиагруппы, приходящие отдельными
// сообщениями, и пересылает альбом одним сгруппированным сообщением.
// Очередь на медиагруппу создается первым элементом и живет до конца
// сборки; маршрут (чат назначения и флаг подписи отправителя)
// фиксируется только первым элементом.
type Forwarder struct {
	api  API
	wait time.Duration

	mu     sync.Mutex
	queues map[string]chan *tgbotapi.Message
	sched  *scheduler.Scheduler
}

func NewForwarder(api API) *Forwarder {
	return &Forwarder{
		api:    api,
		wait:   DefaultWaitTimeout,
		queues: make(map[string]chan *tgbotapi.Message),
	}
}

// Start создает планировщик задач сборки. До вызова Start форвардер
// не принимает сообщения.
func (f *Forwarder) Start() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sched = scheduler.New(func(task string, err error) {
		log.Printf("Album forward error in task %q: %v", task, err)
	})
}

// Stop дожидается завершения всех задач сборки. После возврата живых
// медиагрупп не остается.
func (f *Forwarder) Stop() error {
	f.mu.Lock()
	sched := f.sched
	f.mu.Unlock()
	if sched == nil {
		return ErrNotStarted
	}
	sched.Close()

	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queues) != 0 {
		return fmt.Errorf("%d media groups left after stop", len(f.queues))
	}
	return nil
}

// AddMessage добавляет элемент медиагруппы и сразу возвращается.
// Для первого элемента группы требуется chatID назначения (ненулевой);
// им же фиксируется addFromInfo. Элемент без живой очереди и без
// chatID — опоздавший, он отбрасывается с предупреждением в логе.
func (f *Forwarder) AddMessage(msg *tgbotapi.Message, chatID int64, addFromInfo bool) error {
	if msg.MediaGroupID == "" {
		return ErrNoMediaGroupID
	}
	groupID := msg.MediaGroupID

	f.mu.Lock()
	if f.sched == nil {
		f.mu.Unlock()
		return ErrNotStarted
	}

	if queue, ok := f.queues[groupID]; ok {
		f.mu.Unlock()
		select {
		case queue <- msg:
		default:
			log.Printf("Album queue overflow for media group %s, drop message %d", groupID, msg.MessageID)
		}
		return nil
	}

	if chatID == 0 {
		f.mu.Unlock()
		log.Printf("Skip media group %s item %d as latecomer", groupID, msg.MessageID)
		return nil
	}

	queue := make(chan *tgbotapi.Message, queueCap)
	queue <- msg
	f.queues[groupID] = queue
	err := f.sched.Spawn("album:"+groupID, func(stop <-chan struct{}) error {
		return f.forward(groupID, queue, chatID, addFromInfo, stop)
	})
	if err != nil {
		delete(f.queues, groupID)
		f.mu.Unlock()
		return err
	}
	f.mu.Unlock()
	return nil
}

// forward — задача сборки одной медиагруппы: выбирает элементы из
// очереди, пока пауза между ними не превысит f.wait, затем отправляет
// собранный альбом. Запись о группе снимается на любом пути выхода.
func (f *Forwarder) forward(
	groupID string,
	queue <-chan *tgbotapi.Message,
	chatID int64,
	addFromInfo bool,
	stop <-chan struct{},
) error {
	defer func() {
		f.mu.Lock()
		delete(f.queues, groupID)
		f.mu.Unlock()
	}()

	var media []interface{}
	var fromChat *tgbotapi.Chat
	messageCount := 0

	timer := time.NewTimer(f.wait)
	defer timer.Stop()
loop:
	for {
		select {
		case msg := <-queue:
			messageCount++
			fromChat = msg.Chat
			if entry := inputMedia(msg); entry != nil {
				media = append(media, entry)
			}
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(f.wait)
		case <-timer.C:
			break loop
		case <-stop:
			return nil
		}
	}

	switch {
	case len(media) > 0:
		if addFromInfo {
			from := tgbotapi.NewMessage(chatID, fmt.Sprintf("От %s", tghtml.ChatLink(fromChat)))
			from.ParseMode = tgbotapi.ModeHTML
			if _, err := f.api.Send(from); err != nil {
				return fmt.Errorf("send from info: %w", err)
			}
		}
		group := tgbotapi.MediaGroupConfig{ChatID: chatID, Media: media}
		if _, err := f.api.SendMediaGroup(group); err != nil {
			return fmt.Errorf("send media group: %w", err)
		}
		confirm := tgbotapi.NewMessage(
			fromChat.ID,
			fmt.Sprintf("Переслано элементов группы: %d", len(media)),
		)
		if _, err := f.api.Send(confirm); err != nil {
			return fmt.Errorf("send forward confirmation: %w", err)
		}
		log.Printf("Forwarded %d media group items", len(media))
	case fromChat != nil:
		notice := tgbotapi.NewMessage(
			fromChat.ID,
			fmt.Sprintf("Не удалось переслать элементов неподдерживаемого типа: %d", messageCount),
		)
		if _, err := f.api.Send(notice); err != nil {
			return fmt.Errorf("send unsupported notice: %w", err)
		}
		log.Printf("Failed to forward %d media group items of unsupported type", messageCount)
	default:
		log.Printf("No media group items to forward")
	}
	return nil
}

// inputMedia переводит сообщение в элемент медиагруппы. Возвращает nil
// для неподдерживаемых типов: такие элементы учитываются счетчиком,
// но в альбом не попадают.
func inputMedia(msg *tgbotapi.Message) interface{} {
	switch {
	case msg.Audio != nil:
		audio := tgbotapi.NewInputMediaAudio(tgbotapi.FileID(msg.Audio.FileID))
		audio.Caption = msg.Caption
		audio.CaptionEntities = msg.CaptionEntities
		audio.Duration = msg.Audio.Duration
		audio.Performer = msg.Audio.Performer
		audio.Title = msg.Audio.Title
		return audio
	case msg.Document != nil:
		document := tgbotapi.NewInputMediaDocument(tgbotapi.FileID(msg.Document.FileID))
		document.Caption = msg.Caption
		document.CaptionEntities = msg.CaptionEntities
		return document
	case len(msg.Photo) > 0:
		photo := tgbotapi.NewInputMediaPhoto(tgbotapi.FileID(largestPhoto(msg.Photo).FileID))
		photo.Caption = msg.Caption
		photo.CaptionEntities = msg.CaptionEntities
		return photo
	case msg.Video != nil:
		video := tgbotapi.NewInputMediaVideo(tgbotapi.FileID(msg.Video.FileID))
		video.Caption = msg.Caption
		video.CaptionEntities = msg.CaptionEntities
		video.Width = msg.Video.Width
		video.Height = msg.Video.Height
		video.Duration = msg.Video.Duration
		return video
	default:
		return nil
	}
}

// largestPhoto выбирает вариант фото с наибольшим размером файла.
func largestPhoto(sizes []tgbotapi.PhotoSize) tgbotapi.PhotoSize {
	largest := sizes[0]
	for _, size := range sizes[1:] {
		if size.FileSize > largest.FileSize {
			largest = size
		}
	}
	return largest
}

// pendingGroups — число медиагрупп в процессе сборки.
func (f *Forwarder) pendingGroups() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queues)
}
