package parser

import (
	"testing"

	"github.com/skridlevsky/outliner/types"
)

func TestStripSlashCommand(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/h1 Title", "Title"},
		{"/h1  Title", " Title"},
		{"/to-do buy milk", "buy milk"},
		{"/", ""},
		{"/page", ""},
		{"plain text", "plain text"},
		{"a /h1 mid", "a /h1 mid"},
		{"/h1\tTabbed", "Tabbed"},
		{"/héllo", "éllo"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := StripSlashCommand(tt.in); got != tt.want {
				t.Errorf("StripSlashCommand(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStripSlashCommand_Idempotent(t *testing.T) {
	once := StripSlashCommand("/code fmt.Println")
	if twice := StripSlashCommand(once); twice != once {
		t.Errorf("second strip changed %q to %q", once, twice)
	}
}

func TestSlashQuery(t *testing.T) {
	q, ok := SlashQuery("/HeAd")
	if !ok || q != "head" {
		t.Errorf("SlashQuery = %q, %v; want %q, true", q, ok, "head")
	}
	if _, ok := SlashQuery("no slash"); ok {
		t.Error("SlashQuery reported a slash for plain text")
	}
}

func TestFilterCommands(t *testing.T) {
	t.Run("empty query returns all", func(t *testing.T) {
		if got := FilterCommands(""); len(got) != len(Commands) {
			t.Errorf("got %d commands, want %d", len(got), len(Commands))
		}
	})

	t.Run("label substring", func(t *testing.T) {
		got := FilterCommands("head")
		if len(got) != 3 {
			t.Fatalf("got %d commands, want 3 headings", len(got))
		}
		if got[0].Type != types.TypeH1 {
			t.Errorf("first = %s, want h1", got[0].Type)
		}
	})

	t.Run("cleaned match ignores hyphen", func(t *testing.T) {
		got := FilterCommands("todo")
		if len(got) != 1 || got[0].Type != types.TypeTodo {
			t.Errorf("got %v, want only todo", got)
		}
	})

	t.Run("type match", func(t *testing.T) {
		got := FilterCommands("h2")
		if len(got) != 1 || got[0].Type != types.TypeH2 {
			t.Errorf("got %v, want only h2", got)
		}
	})

	t.Run("no match", func(t *testing.T) {
		if got := FilterCommands("zzz"); len(got) != 0 {
			t.Errorf("got %v, want none", got)
		}
	})
}

func TestCommandsCoverEveryBlockType(t *testing.T) {
	seen := make(map[types.BlockType]bool)
	for _, c := range Commands {
		seen[c.Type] = true
	}
	for _, bt := range types.BlockTypes {
		if !seen[bt] {
			t.Errorf("no slash command for %s", bt)
		}
	}
}
