package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/devggaurav/KShell-UI/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRegistrationOrder(t *testing.T) {
	h := newHarness(t)
	var names []string
	for _, def := range NewRegistry(h.deps).All() {
		names = append(names, def.Name)
	}
	assert.Equal(t, []string{
		"open", "pin", "unpin", "pinned", "contacts", "call", "ls", "cd",
		"pick", "note", "notes", "rss", "theme", "clear", "help", "exit",
	}, names)
}

func TestNoteBuyMilk(t *testing.T) {
	h := newHarness(t)

	out := h.run("note buy milk")
	assert.Equal(t, []string{"Note #1 added: buy milk"}, out)
	assert.True(t, h.interp.Snapshot().Idle())

	notes, err := h.store.ListNotes(context.Background())
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "buy milk", notes[0].Text)
}

func TestApostrophesAreKept(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, []string{"Note #1 added: don't forget milk"}, h.run("note don't forget milk"))
	notes, err := h.store.ListNotes(context.Background())
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "don't forget milk", notes[0].Text)

	h.contacts.On("List", mock.Anything, "O'Brien").Return([]domain.Contact{{Name: "Pat O'Brien", Phone: "555-0199"}}, nil)
	assert.Equal(t, []string{"Calling Pat O'Brien (555-0199)"}, h.run("call O'Brien"))
}

func TestNoteRequiresText(t *testing.T) {
	h := newHarness(t)
	out := h.run("note")
	require.Len(t, out, 1)
	assert.Contains(t, out[0], "usage: note <text>")

	notes, err := h.store.ListNotes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestPinCameraWithoutMatch(t *testing.T) {
	h := newHarness(t)

	out := h.run("pin camera")
	assert.Equal(t, []string{`No app matches "camera"`}, out)

	pinned, err := h.store.ListPinned(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pinned)
	assert.Empty(t, h.interp.Snapshot().Pinned)
}

func TestPinUnpinAndPinnedRow(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, []string{"Pinned Firefox"}, h.run("pin firefox"))
	assert.Equal(t, []string{"Pinned Google Chrome"}, h.run("PIN chrome"))

	s := h.interp.Snapshot()
	require.Len(t, s.Pinned, 2)
	assert.Equal(t, "Firefox", s.Pinned[0].Label)
	assert.Equal(t, "open Firefox", s.Pinned[0].Replacement)
	assert.True(t, s.Pinned[0].Runnable)

	row := s.Row()
	require.Len(t, row, 3)
	assert.True(t, row[2].Separator)

	assert.Equal(t, []string{"Firefox", "Google Chrome"}, h.run("pinned"))
	assert.Equal(t, []string{"Firefox", "Google Chrome"}, h.suggest("unpin "))

	assert.Equal(t, []string{"Unpinned Firefox"}, h.run("unpin firefox"))
	assert.Equal(t, []string{`Not pinned: "firefox"`}, h.run("unpin firefox"))
	assert.Len(t, h.interp.Snapshot().Pinned, 1)
}

func TestPinnedEmpty(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, []string{"No pinned apps"}, h.run("pinned"))
}

func TestOpenLaunchesApp(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, []string{"Opening Google Chrome"}, h.run("open chrome"))
	assert.Equal(t, []string{"Opening Firefox"}, h.run("launch Firefox"))
	require.Len(t, h.intents, 2)
	assert.Equal(t, domain.ActionLaunch, h.intents[0].Action)
	assert.Equal(t, "google-chrome", h.intents[0].Target)
	assert.Equal(t, "firefox", h.intents[1].Target)

	assert.Equal(t, []string{`No app matches "o"`}, h.run("open o"))
}

func TestOpenSuggestionsReplaceWholeArgument(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, []string{"Google Chrome"}, h.suggest("open google ch"))
	require.True(t, h.interp.Accept(0))
	h.interp.Wait()
	s := h.interp.Snapshot()
	require.Len(t, s.Log, 2)
	assert.Equal(t, "open Google Chrome", s.Log[0].Text)
	assert.Equal(t, "Opening Google Chrome", s.Log[1].Text)
}

func TestContactsPermissionDenied(t *testing.T) {
	h := newHarness(t)
	h.grant = false

	assert.Equal(t, []string{"Contacts permission denied"}, h.run("contacts"))
	assert.Equal(t, [][]string{{PermContactsRead}}, h.permissions)
	h.contacts.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestContactsListing(t *testing.T) {
	h := newHarness(t)
	h.contacts.On("List", mock.Anything, "bob").Return([]domain.Contact{
		{Name: "Bob Stone", Phone: "555-0101"},
		{Name: "Bobby Tables", Phone: "555-0102"},
	}, nil)
	h.contacts.On("List", mock.Anything, "zed").Return([]domain.Contact{}, nil)

	assert.Equal(t, []string{"Bob Stone  555-0101", "Bobby Tables  555-0102"}, h.run("contacts bob"))
	assert.Equal(t, []string{`No contacts match "zed"`}, h.run("contacts zed"))

	// Selecting an entry dials the contact.
	entry := h.interp.Snapshot().Log[1]
	require.NotNil(t, entry.Action)
	entry.Action()
	nav := h.interp.Snapshot().Navigate
	require.NotNil(t, nav)
	assert.Equal(t, "tel:555-0101", nav.Target)

	h.contacts.AssertExpectations(t)
}

func TestCall(t *testing.T) {
	h := newHarness(t)
	h.contacts.On("List", mock.Anything, "bob stone").Return([]domain.Contact{{Name: "Bob Stone", Phone: "555-0101"}}, nil)
	h.contacts.On("List", mock.Anything, "bob").Return([]domain.Contact{
		{Name: "Bob Stone", Phone: "555-0101"},
		{Name: "Bobby Tables", Phone: "555-0102"},
	}, nil)
	h.contacts.On("List", mock.Anything, "nobody").Return([]domain.Contact{}, nil)

	assert.Equal(t, []string{"Calling Bob Stone (555-0101)"}, h.run("dial bob stone"))
	assert.Equal(t, [][]string{{PermContactsRead, PermPhoneCall}}, h.permissions)
	require.Len(t, h.intents, 1)
	assert.Equal(t, domain.DialIntent("555-0101"), h.intents[0])

	assert.Equal(t, []string{"Multiple contacts match: Bob Stone, Bobby Tables"}, h.run("call bob"))
	assert.Equal(t, []string{`No contact matches "nobody"`}, h.run("call nobody"))

	h.grant = false
	assert.Equal(t, []string{"Call permission denied"}, h.run("call bob"))
}

func TestLsAndCd(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, []string{"Documents/", "Downloads/", "todo.txt"}, h.run("ls"))
	assert.Equal(t, [][]string{{PermStorageRead}}, h.permissions)

	docs := filepath.Join(h.home, "Documents")
	assert.Equal(t, []string{docs}, h.run("cd Documents"))
	assert.Equal(t, docs, h.interp.Snapshot().WorkDir)
	assert.Equal(t, []string{docs + " is empty"}, h.run("ls"))

	assert.Equal(t, []string{h.home}, h.run("cd"))
	assert.Equal(t, []string{h.home}, h.run("cd ~"))

	out := h.run("cd todo.txt")
	require.Len(t, out, 1)
	assert.Contains(t, out[0], "not a directory")

	out = h.run("cd missing")
	require.Len(t, out, 1)
	assert.Contains(t, out[0], "cd: ")
	assert.Equal(t, h.home, h.interp.Snapshot().WorkDir)

	h.grant = false
	assert.Equal(t, []string{"Storage permission denied"}, h.run("ls"))
}

func TestFileSuggestions(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, []string{"Documents/", "Downloads/"}, h.suggest("cd "))
	assert.Equal(t, []string{"Documents/", "Downloads/", "todo.txt"}, h.suggest("ls "))
	assert.Equal(t, []string{"todo.txt"}, h.suggest("ls TO"))

	h.suggest("cd docu")
	require.True(t, h.interp.Accept(0))
	assert.Equal(t, "cd Documents/", h.interp.Snapshot().Text)

	assert.Empty(t, h.suggest("cd Documents/ x"))
}

func TestFileSuggestionsWithSpacesStayOneArgument(t *testing.T) {
	h := newHarness(t)
	music := filepath.Join(h.home, "My Music")
	require.NoError(t, os.MkdirAll(music, 0o755))

	for _, typed := range []string{"cd My", `cd "My M`} {
		assert.Equal(t, []string{"My Music/"}, h.suggest(typed), typed)
		require.True(t, h.interp.Accept(0))
		text := h.interp.Snapshot().Text
		assert.Equal(t, `cd "My Music/"`, text, typed)

		assert.Equal(t, []string{music}, h.run(text), typed)
		assert.Equal(t, music, h.interp.Snapshot().WorkDir)
		h.run("cd")
	}
}

func TestFeedSuggestionsQuoteNames(t *testing.T) {
	h := newHarness(t)
	h.run(`rss add "my feed" https://example.com/rss`)

	h.interp.ChangeText("rss open my", len("rss open my"))
	batch := h.interp.Suggest(context.Background())
	require.Len(t, batch.Items, 1)
	assert.Equal(t, `"my feed"`, batch.Items[0].Replacement)

	assert.Equal(t, []string{"Opening https://example.com/rss"}, h.run(`rss open "my feed"`))
}

func TestPick(t *testing.T) {
	h := newHarness(t)

	h.activity = domain.ActivityResult{OK: true, Data: "/tmp/photo.jpg"}
	assert.Equal(t, []string{"Picked /tmp/photo.jpg"}, h.run("pick"))

	h.activity = domain.ActivityResult{}
	assert.Equal(t, []string{"No file picked"}, h.run("pick"))
}

func TestNotesListRemoveAndClear(t *testing.T) {
	h := newHarness(t)
	h.run("note first")
	h.run("note second")

	assert.Equal(t, []string{"#2 second", "#1 first"}, h.run("notes"))
	assert.Equal(t, []string{"#2 second", "#1 first"}, h.run("notes list"))
	assert.Equal(t, []string{"#2 second", "#1 first"}, h.suggest("notes rm "))

	assert.Equal(t, []string{"Removed note #1"}, h.run("notes rm 1"))
	assert.Equal(t, []string{"No note #1"}, h.run("notes rm #1"))

	out := h.run("notes rm one")
	require.Len(t, out, 1)
	assert.Contains(t, out[0], "invalid note id")

	assert.Equal(t, []string{ClearNotesQuestion}, h.run("notes clear"))
	s := h.interp.Snapshot()
	require.True(t, s.Mode.IsPrompt())
	assert.Equal(t, "yes/no", s.Placeholder())
	assert.Equal(t, []string{"yes"}, h.suggest("y"))

	assert.Equal(t, []string{"Kept all notes"}, h.run("no"))
	assert.False(t, h.interp.Snapshot().Mode.IsPrompt())

	h.run("notes clear")
	assert.Equal(t, []string{"Cleared 1 notes"}, h.run("yes"))
	assert.Equal(t, []string{"No notes"}, h.run("notes"))
}

func TestNotesSubcommandSuggestions(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, []string{"list", "rm", "clear"}, h.suggest("notes "))
	assert.Equal(t, []string{"clear"}, h.suggest("notes c"))
}

func TestRss(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, []string{"Added feed hn"}, h.run("rss add hn https://news.ycombinator.com/rss"))
	assert.Equal(t, []string{`Feed "hn" already exists`}, h.run("feed add hn https://example.com/rss"))

	out := h.run("rss add bad notaurl")
	require.Len(t, out, 1)
	assert.Contains(t, out[0], "invalid feed url")

	assert.Equal(t, []string{"hn  https://news.ycombinator.com/rss"}, h.run("rss list"))
	assert.Equal(t, []string{"hn"}, h.suggest("rss open "))

	assert.Equal(t, []string{"Opening https://news.ycombinator.com/rss"}, h.run("rss open hn"))
	require.Len(t, h.intents, 1)
	assert.Equal(t, domain.ViewIntent("https://news.ycombinator.com/rss"), h.intents[0])

	assert.Equal(t, []string{`No feed named "nope"`}, h.run("rss open nope"))
	assert.Equal(t, []string{"Removed feed hn"}, h.run("rss rm hn"))
	assert.Equal(t, []string{`No feed named "hn"`}, h.run("rss rm hn"))
	assert.Equal(t, []string{"No feeds"}, h.run("rss list"))

	out = h.run("rss add onlyname")
	require.Len(t, out, 1)
	assert.Contains(t, out[0], "rss: usage:")

	assert.Equal(t, []string{"add", "list", "open", "rm"}, h.suggest("rss "))
}

func TestThemeExitClear(t *testing.T) {
	h := newHarness(t)

	h.run("theme")
	assert.True(t, h.interp.Snapshot().ThemeRequested)

	h.run("note x")
	h.run("cls")
	assert.Empty(t, h.interp.Snapshot().Log)

	h.run("quit")
	assert.True(t, h.interp.Snapshot().ExitRequested)
}

func TestHelp(t *testing.T) {
	h := newHarness(t)

	out := h.run("help")
	require.Len(t, out, 16)
	assert.Contains(t, out[0], "open")
	assert.Contains(t, out[0], "Launch an app")

	assert.Equal(t, []string{"Usage: call <name>", "Call a contact", "Aliases: dial"}, h.run("? call"))

	out = h.run("help nots")
	require.Len(t, out, 1)
	assert.Contains(t, out[0], "no such command: nots")

	assert.Equal(t, []string{"note", "notes"}, h.suggest("help not"))
}

func TestUnknownCommandSuggestsAlternatives(t *testing.T) {
	h := newHarness(t)
	out := h.run("nots")
	require.Len(t, out, 1)
	assert.Contains(t, out[0], "No such command: nots (did you mean: note, notes")
}

func TestCommandNameSuggestions(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, []string{"call", "cd", "clear", "cls", "contacts"}, h.suggest("c"))
	assert.Equal(t, []string{"pick", "pin", "pinned"}, h.suggest("pi"))
}
