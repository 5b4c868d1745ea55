package service

import (
	"biokuiz/internal/config"
	"biokuiz/internal/model"
	"biokuiz/internal/repository"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedYAML = `
materials:
  - title: Excretion
    text: The kidneys filter blood.
    image: kidney.png
questions:
  - text: Which organ filters blood?
    type: mcq
    choices:
      - {label: A, text: Kidney}
      - {label: B, text: Liver}
    correct: A
  - text: The liver detoxifies.
    type: tf
    correct: "True"
users:
  - username: student1
    password: password
    role: student
`

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	auth := NewAuthService(f.users, repository.NewMemorySessionRepository(), &config.SessionConfig{TTL: time.Hour})
	seeder := NewSeedService(f.materials, f.questions, f.users, auth)

	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o644))
	data, err := LoadSeedFile(path)
	require.NoError(t, err)

	rep, err := seeder.Seed(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, SeedReport{Materials: 1, Questions: 2, Users: 1}, rep)

	rep, err = seeder.Seed(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, SeedReport{}, rep)

	qs, err := f.questions.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, model.TrueFalse, qs[1].Type)

	_, u, err := auth.Login(ctx, "student1", "password")
	require.NoError(t, err)
	assert.Equal(t, model.Student, u.Role)
}

func TestSeedFileShipsValidBank(t *testing.T) {
	data, err := LoadSeedFile(filepath.Join("..", "..", "configs", "seed.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, data.Questions)
	for _, q := range data.Questions {
		var built model.Question
		req := QuestionRequest{Text: q.Text, Type: q.Type, Choices: q.Choices, Correct: q.Correct}
		assert.NoError(t, req.apply(&built), q.Text)
	}
}
