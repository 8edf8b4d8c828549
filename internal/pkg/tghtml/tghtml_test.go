package tghtml

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		title, first, last string
		want               string
	}{
		{"", "Анна", "", "Анна"},
		{"", "Анна", "Иванова", "Анна Иванова"},
		{"Группа поддержки", "Анна", "Иванова", "Группа поддержки"},
	}
	for _, c := range cases {
		if got := Name(c.title, c.first, c.last); got != c.want {
			t.Fatalf("Name(%q, %q, %q) = %q, want %q", c.title, c.first, c.last, got, c.want)
		}
	}
}

func TestLinkEscapesName(t *testing.T) {
	t.Parallel()

	got := Link(7, `<b>&"`)
	want := `<a href="tg://user?id=7">&lt;b&gt;&amp;&#34;</a>`
	if got != want {
		t.Fatalf("Link = %q, want %q", got, want)
	}
}

func TestChatLink(t *testing.T) {
	t.Parallel()

	chat := &tgbotapi.Chat{ID: 9, FirstName: "Анна", LastName: "Иванова"}
	want := `<a href="tg://user?id=9">Анна Иванова</a>`
	if got := ChatLink(chat); got != want {
		t.Fatalf("ChatLink = %q, want %q", got, want)
	}
}

func TestUserLink(t *testing.T) {
	t.Parallel()

	user := &tgbotapi.User{ID: 11, FirstName: "Олег"}
	want := `<a href="tg://user?id=11">Олег</a>`
	if got := UserLink(user); got != want {
		t.Fatalf("UserLink = %q, want %q", got, want)
	}
}
