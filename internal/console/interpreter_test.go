package console

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/hbnb/internal/model"
	"github.com/leapstack-labs/hbnb/internal/storage"
	"github.com/leapstack-labs/hbnb/internal/testutil"
)

type harness struct {
	interp  *Interpreter
	store   *storage.Storage
	backend *storage.MemoryBackend
	out     *bytes.Buffer
	errOut  *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	backend := storage.NewMemoryBackend()
	store, err := storage.Open(context.Background(), backend, testutil.NewTestLogger(t))
	require.NoError(t, err)

	h := &harness{store: store, backend: backend, out: &bytes.Buffer{}, errOut: &bytes.Buffer{}}
	h.interp = New(Config{
		Store:  store,
		Out:    h.out,
		ErrOut: h.errOut,
		Logger: testutil.NewTestLogger(t),
	})
	return h
}

// run executes one line and returns what it printed.
func (h *harness) run(t *testing.T, line string) string {
	t.Helper()
	h.out.Reset()
	stop := h.interp.Execute(context.Background(), line)
	assert.False(t, stop, "line %q should not stop the loop", line)
	return h.out.String()
}

// create creates an instance and returns its id.
func (h *harness) create(t *testing.T, class string) string {
	t.Helper()
	id := strings.TrimSpace(h.run(t, "create "+class))
	_, err := uuid.Parse(id)
	require.NoError(t, err, "create should print a uuid, got %q", id)
	return id
}

func TestCreateAndShow(t *testing.T) {
	h := newHarness(t)

	id := h.create(t, "User")
	assert.Equal(t, 1, h.backend.Saves(), "create persists")

	out := h.run(t, "show User "+id)
	assert.True(t, strings.HasPrefix(out, "[User] ("+id+") {"), out)
	assert.Contains(t, out, "class_name: 'User'")
	assert.Equal(t, out, h.run(t, "User.show(\""+id+"\")"))
}

func TestValidationMessages(t *testing.T) {
	h := newHarness(t)
	id := h.create(t, "User")
	saves := h.backend.Saves()

	tests := []struct {
		line string
		want error
	}{
		{line: "create", want: ErrClassNameMissing},
		{line: "create Frobnicator", want: ErrClassNameUnknown},
		{line: "create user", want: ErrClassNameUnknown},
		{line: "show", want: ErrClassNameMissing},
		{line: "show Frobnicator", want: ErrClassNameUnknown},
		{line: "show User", want: ErrInstanceIDMissing},
		{line: "show User missing-id", want: ErrInstanceNotFound},
		{line: "show City " + id, want: ErrInstanceNotFound},
		{line: "destroy", want: ErrClassNameMissing},
		{line: "destroy Frobnicator 1", want: ErrClassNameUnknown},
		{line: "destroy User", want: ErrInstanceIDMissing},
		{line: "destroy User missing-id", want: ErrInstanceNotFound},
		{line: "all Frobnicator", want: ErrClassNameUnknown},
		{line: "count Frobnicator", want: ErrClassNameUnknown},
		{line: "update", want: ErrClassNameMissing},
		{line: "update Frobnicator", want: ErrClassNameUnknown},
		{line: "update User", want: ErrInstanceIDMissing},
		{line: "update User missing-id", want: ErrInstanceNotFound},
		{line: "update User " + id, want: ErrAttributeNameMissing},
		{line: "update User " + id + " name", want: ErrAttributeValueMissing},
		{line: "Frobnicator.count()", want: ErrClassNameUnknown},
		{line: "User.show()", want: ErrInstanceIDMissing},
		{line: "User.destroy(\"nope\")", want: ErrInstanceNotFound},
		{line: "User.update()", want: ErrInstanceIDMissing},
		{line: "User.update(\"" + id + "\")", want: ErrAttributeNameMissing},
		{line: "User.update(\"" + id + "\", \"name\")", want: ErrAttributeValueMissing},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			out := h.run(t, tt.line)
			assert.Equal(t, tt.want.Error()+"\n", out)
		})
	}

	assert.Equal(t, saves, h.backend.Saves(), "failed validation must not touch storage")
	m, ok := h.store.Find("User", id)
	require.True(t, ok)
	_, hasName := m.Get("name")
	assert.False(t, hasName)
}

func TestDestroyThenShow(t *testing.T) {
	h := newHarness(t)
	id := h.create(t, "Place")

	assert.Empty(t, h.run(t, "destroy Place "+id))
	assert.Equal(t, ErrInstanceNotFound.Error()+"\n", h.run(t, "show Place "+id))
	assert.Empty(t, h.backend.Records(), "destroy persists")
}

func TestDottedDestroy(t *testing.T) {
	h := newHarness(t)
	id := h.create(t, "Amenity")

	assert.Empty(t, h.run(t, `Amenity.destroy("`+id+`")`))
	_, ok := h.store.Find("Amenity", id)
	assert.False(t, ok)
}

func TestAll(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, "[]\n", h.run(t, "all"))

	cityID := h.create(t, "City")
	assert.Equal(t, "[]\n", h.run(t, "all User"), "no users yet")
	assert.Equal(t, "[]\n", h.run(t, "User.all()"))

	userID := h.create(t, "User")
	city, _ := h.store.Find("City", cityID)
	user, _ := h.store.Find("User", userID)

	assert.Equal(t, formatList([]string{user.String()})+"\n", h.run(t, "all User"))
	assert.Equal(t, formatList([]string{city.String(), user.String()})+"\n", h.run(t, "all"))
	assert.Equal(t, h.run(t, "all User"), h.run(t, "User.all()"))
	assert.True(t, strings.HasPrefix(h.run(t, "all City"), `["[City] (`+cityID+`) {`))
}

func TestCount(t *testing.T) {
	h := newHarness(t)
	for i := 0; i < 3; i++ {
		h.create(t, "User")
	}
	h.create(t, "City")

	assert.Equal(t, "3\n", h.run(t, "User.count()"))
	assert.Equal(t, "3\n", h.run(t, "count User"))
	assert.Equal(t, "1\n", h.run(t, "City.count()"))
	assert.Equal(t, "0\n", h.run(t, "Review.count()"))
	assert.Equal(t, "4\n", h.run(t, "count"))
}

func TestUpdate(t *testing.T) {
	h := newHarness(t)
	id := h.create(t, "User")
	m, _ := h.store.Find("User", id)
	before, _ := m.UpdatedAt()

	assert.Empty(t, h.run(t, `update User `+id+` first_name "Betty"`))

	v, ok := m.Get("first_name")
	require.True(t, ok)
	assert.Equal(t, "Betty", v)

	after, _ := m.UpdatedAt()
	assert.True(t, after.After(before))

	saved := h.backend.Records()
	require.Len(t, saved, 1)
	got, _ := saved[0].Get("first_name")
	assert.Equal(t, "Betty", got, "update persists")
}

func TestUpdate_ValueIsLiteralString(t *testing.T) {
	h := newHarness(t)
	id := h.create(t, "Place")

	h.run(t, "update Place "+id+" number_rooms 3")
	h.run(t, "update Place "+id+" name 'Loft'")

	m, _ := h.store.Find("Place", id)
	rooms, _ := m.Get("number_rooms")
	assert.Equal(t, "3", rooms)
	name, _ := m.Get("name")
	assert.Equal(t, "Loft", name)
}

func TestUpdate_SyntaxesAreEquivalent(t *testing.T) {
	classic := newHarness(t)
	dotted := newHarness(t)

	for _, h := range []*harness{classic, dotted} {
		m, err := model.New("User")
		require.NoError(t, err)
		m.Set(model.FieldID, "123")
		h.store.New(m)
		require.NoError(t, h.store.Save(context.Background()))
	}

	classic.run(t, `update User 123 name "Bob"`)
	dotted.run(t, `User.update("123", "name", "Bob")`)

	a, ok := classic.store.Find("User", "123")
	require.True(t, ok)
	b, ok := dotted.store.Find("User", "123")
	require.True(t, ok)

	av, _ := a.Get("name")
	bv, _ := b.Get("name")
	assert.Equal(t, "Bob", av)
	assert.Equal(t, av, bv)
}

func TestUpdate_JSONForm(t *testing.T) {
	h := newHarness(t)
	id := h.create(t, "User")
	saves := h.backend.Saves()

	assert.Empty(t, h.run(t, `User.update("`+id+`", {"name": "Bob", "age": "30"})`))

	m, _ := h.store.Find("User", id)
	name, _ := m.Get("name")
	age, _ := m.Get("age")
	assert.Equal(t, "Bob", name)
	assert.Equal(t, "30", age)
	assert.Equal(t, saves+2, h.backend.Saves(), "one persisted update per key")

	rec := m.Record()
	keys := rec.Keys()
	assert.Equal(t, []string{"name", "age"}, keys[len(keys)-2:])
}

func TestUpdate_JSONFormReportsEachFailure(t *testing.T) {
	h := newHarness(t)
	out := h.run(t, `User.update("nope", {"name": "Bob", "age": "30"})`)
	assert.Equal(t, strings.Repeat(ErrInstanceNotFound.Error()+"\n", 2), out)
}

func TestUpdate_IDCollisionIsRefused(t *testing.T) {
	h := newHarness(t)
	a := h.create(t, "User")
	b := h.create(t, "User")
	h.run(t, "update User "+b+" first_name Betty")
	saves := h.backend.Saves()

	assert.Equal(t, ErrInstanceIDTaken.Error()+"\n", h.run(t, "update User "+a+" id "+b))
	assert.Equal(t, saves, h.backend.Saves())
	assert.Equal(t, "2\n", h.run(t, "User.count()"))
	assert.Contains(t, h.run(t, "show User "+b), "first_name: 'Betty'")
	assert.Contains(t, h.run(t, "show User "+a), "("+a+")")
	assert.Len(t, h.backend.Records(), 2)

	assert.Empty(t, h.run(t, "update User "+a+" id "+a), "same id is not a collision")
}

func TestUpdate_MalformedTimestampSurvivesLaterSaves(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	id := h.create(t, "User")
	h.run(t, "update User "+id+" created_at yesterday")

	store, err := storage.Open(ctx, h.backend, testutil.NewTestLogger(t))
	require.NoError(t, err)
	require.Len(t, store.Skipped(), 1)

	var out bytes.Buffer
	interp := New(Config{Store: store, Out: &out, Logger: testutil.NewTestLogger(t)})
	assert.False(t, interp.Execute(ctx, "create City"))
	require.Len(t, h.backend.Records(), 2)

	out.Reset()
	interp.Execute(ctx, "update City "+id+" name x")
	assert.Equal(t, ErrInstanceNotFound.Error()+"\n", out.String())

	out.Reset()
	interp.Execute(ctx, "create User")
	created := strings.TrimSpace(out.String())
	out.Reset()
	interp.Execute(ctx, "update User "+created+" id "+id)
	assert.Equal(t, ErrInstanceIDTaken.Error()+"\n", out.String(), "skipped records keep their key")
}

func TestUnknownSyntax(t *testing.T) {
	h := newHarness(t)
	for _, line := range []string{"frobnicate", "User.fly()", "User.all(", "nothing here"} {
		assert.Equal(t, "*** Unknown syntax: "+line+"\n", h.run(t, line))
	}
	assert.Equal(t, "*** Unknown syntax: foo\n", h.run(t, "  foo  "))
}

func TestEmptyLine(t *testing.T) {
	h := newHarness(t)
	assert.Empty(t, h.run(t, ""))
	assert.Empty(t, h.run(t, "    "))
}

func TestHelp(t *testing.T) {
	h := newHarness(t)

	out := h.run(t, "help")
	assert.Contains(t, out, "Documented commands")
	for _, verb := range helpOrder {
		assert.Contains(t, out, verb)
	}

	assert.Equal(t, helpTopics[VerbQuit]+"\n", h.run(t, "help quit"))
	assert.Equal(t, "*** No help on fly\n", h.run(t, "help fly"))
}

func TestExecute_Stops(t *testing.T) {
	h := newHarness(t)

	assert.True(t, h.interp.Execute(context.Background(), "quit"))
	assert.Empty(t, h.out.String())

	assert.True(t, h.interp.Execute(context.Background(), "EOF"))
	assert.Equal(t, "\n", h.out.String())
}

func TestRun(t *testing.T) {
	h := newHarness(t)
	input := strings.Join([]string{
		"create State",
		"",
		"State.count()",
		"quit",
		"create State",
	}, "\n")

	require.NoError(t, h.interp.Run(context.Background(), NewScannerReader(strings.NewReader(input))))

	lines := strings.Split(strings.TrimSpace(h.out.String()), "\n")
	require.Len(t, lines, 2)
	_, err := uuid.Parse(lines[0])
	assert.NoError(t, err)
	assert.Equal(t, "1", lines[1])
	assert.Equal(t, 1, h.store.Len(), "nothing runs after quit")
}

func TestRun_EndOfInputPrintsNewline(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.interp.Run(context.Background(), NewScannerReader(strings.NewReader("all"))))
	assert.Equal(t, "[]\n\n", h.out.String())
}

type failingReader struct{}

func (failingReader) Readline() (string, error) {
	return "", errors.New("terminal gone")
}

func TestRun_ReadError(t *testing.T) {
	h := newHarness(t)
	err := h.interp.Run(context.Background(), failingReader{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terminal gone")
}

// failingStore wraps a Storage and fails every Save.
type failingStore struct {
	*storage.Storage
}

func (failingStore) Save(context.Context) error {
	return errors.New("disk full")
}

func TestSaveFailureIsReportedAndLoopContinues(t *testing.T) {
	h := newHarness(t)
	errOut := &bytes.Buffer{}
	interp := New(Config{Store: failingStore{h.store}, Out: h.out, ErrOut: errOut})

	stop := interp.Execute(context.Background(), "create User")
	assert.False(t, stop)
	assert.Equal(t, "Error: disk full\n", errOut.String())
	assert.Equal(t, 1, h.store.Len())
}
