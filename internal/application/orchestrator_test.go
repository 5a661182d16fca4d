package application

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/noarh/internal/domain"
	"github.com/bnema/noarh/internal/ports"
	"github.com/bnema/noarh/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type orchestratorFixture struct {
	orchestrator *Orchestrator
	classify     *mocks.MockCompleter
	reply        *mocks.MockCompleter
	speaker      *mocks.MockSpeaker
	drawer       *mocks.MockDrawer
	logs         *observer.ObservedLogs
}

func newOrchestratorFixture(t *testing.T) orchestratorFixture {
	t.Helper()

	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	f := orchestratorFixture{
		classify: mocks.NewMockCompleter(t),
		reply:    mocks.NewMockCompleter(t),
		speaker:  mocks.NewMockSpeaker(t),
		drawer:   mocks.NewMockDrawer(t),
		logs:     logs,
	}

	orchestrator, err := NewOrchestrator(OrchestratorConfig{
		Classifier:  NewClassifier(f.classify, logger),
		Completer:   f.reply,
		Synthesizer: NewSynthesizer(f.speaker, DefaultSpeechConfig(), logger),
		Illustrator: NewIllustrator(f.drawer, logger),
		Logger:      logger,
	})
	require.NoError(t, err)
	f.orchestrator = orchestrator

	return f
}

func (f orchestratorFixture) classifyAs(label string) {
	f.classify.EXPECT().Complete(mockAnyContext(), mockAnyRequest()).Return(label, nil).Once()
}

func TestOrchestratorStoryScenario(t *testing.T) {
	f := newOrchestratorFixture(t)
	transcript := domain.Transcript{domain.UserTurn("messi")}

	f.classifyAs("story")
	f.reply.EXPECT().Complete(mockAnyContext(), ports.CompletionRequest{
		Directive: domain.BuildDirective(domain.ModeStory).String(),
		Turns:     []domain.Turn{domain.UserTurn("messi")},
	}).Return("Once, a boy named Lionel kicked a moonlit ball.", nil).Once()
	f.speaker.EXPECT().Speak(mockAnyContext(), mock.Anything).Return([]byte("mp3"), nil).Once()
	f.drawer.EXPECT().Draw(mockAnyContext(), PrimaryImagePrompt("Once, a boy named Lionel kicked a moonlit ball.")).Return([]byte("png"), nil).Once()

	result, err := f.orchestrator.RunTurn(context.Background(), transcript)
	require.NoError(t, err)

	assert.Equal(t, domain.ModeStory, result.Mode)
	assert.False(t, result.Fallback)
	assert.Equal(t, domain.Transcript{
		domain.UserTurn("messi"),
		domain.AssistantTurn("Once, a boy named Lionel kicked a moonlit ball."),
	}, result.Transcript)
	assert.Equal(t, []byte("mp3"), result.Audio)
	assert.Equal(t, []byte("png"), result.Image)
	assert.Len(t, transcript, 1)
}

func TestOrchestratorRejectScenarioSkipsImage(t *testing.T) {
	f := newOrchestratorFixture(t)

	f.classifyAs("reject")
	f.reply.EXPECT().Complete(mockAnyContext(), ports.CompletionRequest{
		Directive: domain.BuildDirective(domain.ModeReject).String(),
		Turns:     []domain.Turn{domain.UserTurn("what is 7*8?")},
	}).Return(domain.RefusalPhrase+"\n", nil).Once()
	f.speaker.EXPECT().Speak(mockAnyContext(), mock.Anything).Return([]byte("mp3"), nil).Once()

	result, err := f.orchestrator.RunTurn(context.Background(), domain.Transcript{domain.UserTurn("what is 7*8?")})
	require.NoError(t, err)

	assert.Equal(t, domain.ModeReject, result.Mode)
	assert.Equal(t, domain.RefusalPhrase, result.Reply)
	assert.Nil(t, result.Image)
	f.drawer.AssertNotCalled(t, "Draw", mock.Anything, mock.Anything)
}

func TestOrchestratorIdentitySeesOnlyLatestMessage(t *testing.T) {
	f := newOrchestratorFixture(t)
	transcript := domain.Transcript{
		domain.UserTurn("a lonely dragon"),
		domain.AssistantTurn("Once upon a time, a dragon..."),
		domain.UserTurn("who made you?"),
	}

	f.classifyAs("identity")
	f.reply.EXPECT().Complete(mockAnyContext(), ports.CompletionRequest{
		Directive: domain.BuildDirective(domain.ModeIdentity).String(),
		Turns:     []domain.Turn{domain.UserTurn("who made you?")},
	}).Return("I am Noarh, made by Yousef Alogiely.", nil).Once()
	f.speaker.EXPECT().Speak(mockAnyContext(), mock.Anything).Return([]byte("mp3"), nil).Once()

	result, err := f.orchestrator.RunTurn(context.Background(), transcript)
	require.NoError(t, err)

	assert.Equal(t, domain.ModeIdentity, result.Mode)
	assert.Contains(t, result.Reply, "Noarh")
	assert.Len(t, result.Transcript, 4)
	assert.Nil(t, result.Image)
	f.drawer.AssertNotCalled(t, "Draw", mock.Anything, mock.Anything)
}

func TestOrchestratorStorySeesCleanedFullHistory(t *testing.T) {
	f := newOrchestratorFixture(t)
	transcript := domain.Transcript{
		{Role: domain.RoleSystem, Content: "stale directive"},
		domain.UserTurn("a lonely dragon"),
		domain.AssistantTurn("Once upon a time, a dragon..."),
		domain.UserTurn("and then?"),
	}

	f.classifyAs("story")
	f.reply.EXPECT().Complete(mockAnyContext(), ports.CompletionRequest{
		Directive: domain.BuildDirective(domain.ModeStory).String(),
		Turns: []domain.Turn{
			domain.UserTurn("a lonely dragon"),
			domain.AssistantTurn("Once upon a time, a dragon..."),
			domain.UserTurn("and then?"),
		},
	}).Return("The dragon found a friend.", nil).Once()
	f.speaker.EXPECT().Speak(mockAnyContext(), mock.Anything).Return([]byte("mp3"), nil).Once()
	f.drawer.EXPECT().Draw(mockAnyContext(), mock.Anything).Return([]byte("png"), nil).Once()

	result, err := f.orchestrator.RunTurn(context.Background(), transcript)
	require.NoError(t, err)
	assert.Equal(t, "The dragon found a friend.", result.Reply)
	assert.Len(t, result.Transcript, 5)
}

func TestOrchestratorClassifierFailureRoutesToReject(t *testing.T) {
	tests := []struct {
		name  string
		label string
		err   error
	}{
		{name: "call error", err: errors.New("timeout")},
		{name: "malformed label", label: "maybe a story?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrchestratorFixture(t)

			f.classify.EXPECT().Complete(mockAnyContext(), mockAnyRequest()).Return(tt.label, tt.err).Once()
			f.reply.EXPECT().Complete(mockAnyContext(), ports.CompletionRequest{
				Directive: domain.BuildDirective(domain.ModeReject).String(),
				Turns:     []domain.Turn{domain.UserTurn("the moon")},
			}).Return(domain.RefusalPhrase, nil).Once()
			f.speaker.EXPECT().Speak(mockAnyContext(), mock.Anything).Return([]byte("mp3"), nil).Once()

			result, err := f.orchestrator.RunTurn(context.Background(), domain.Transcript{domain.UserTurn("the moon")})
			require.NoError(t, err)
			assert.Equal(t, domain.ModeReject, result.Mode)
			f.drawer.AssertNotCalled(t, "Draw", mock.Anything, mock.Anything)
		})
	}
}

func TestOrchestratorReplyFailureUsesModePlaceholder(t *testing.T) {
	tests := []struct {
		mode       string
		want       string
		illustrate bool
	}{
		{mode: "story", want: domain.StoryPlaceholder, illustrate: true},
		{mode: "identity", want: domain.IdentityPlaceholder},
		{mode: "reject", want: domain.RefusalPhrase},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			f := newOrchestratorFixture(t)

			f.classifyAs(tt.mode)
			f.reply.EXPECT().Complete(mockAnyContext(), mockAnyRequest()).Return("", errors.New("503")).Once()
			f.speaker.EXPECT().Speak(mockAnyContext(), mock.MatchedBy(func(req ports.SpeechRequest) bool {
				return req.Text == tt.want
			})).Return([]byte("mp3"), nil).Once()
			if tt.illustrate {
				f.drawer.EXPECT().Draw(mockAnyContext(), PrimaryImagePrompt(tt.want)).Return([]byte("png"), nil).Once()
			}

			result, err := f.orchestrator.RunTurn(context.Background(), domain.Transcript{domain.UserTurn("hello")})
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Reply)
			assert.True(t, result.Fallback)
			assert.Equal(t, domain.AssistantTurn(tt.want), result.Transcript[len(result.Transcript)-1])
			assert.Equal(t, 1, f.logs.FilterMessage("reply generation failed, using placeholder").Len())
		})
	}
}

func TestOrchestratorBlankReplyUsesPlaceholder(t *testing.T) {
	f := newOrchestratorFixture(t)

	f.classifyAs("story")
	f.reply.EXPECT().Complete(mockAnyContext(), mockAnyRequest()).Return(" \n", nil).Once()
	f.speaker.EXPECT().Speak(mockAnyContext(), mock.Anything).Return([]byte("mp3"), nil).Once()
	f.drawer.EXPECT().Draw(mockAnyContext(), mock.Anything).Return([]byte("png"), nil).Once()

	result, err := f.orchestrator.RunTurn(context.Background(), domain.Transcript{domain.UserTurn("stars")})
	require.NoError(t, err)
	assert.Equal(t, domain.StoryPlaceholder, result.Reply)
}

func TestOrchestratorEnhancementFailuresDoNotAbortTurn(t *testing.T) {
	f := newOrchestratorFixture(t)

	f.classifyAs("story")
	f.reply.EXPECT().Complete(mockAnyContext(), mockAnyRequest()).Return("A quiet owl sang.", nil).Once()
	f.speaker.EXPECT().Speak(mockAnyContext(), mock.Anything).Return(nil, errors.New("tts down")).Once()
	f.drawer.EXPECT().Draw(mockAnyContext(), PrimaryImagePrompt("A quiet owl sang.")).Return(nil, errors.New("policy")).Once()
	f.drawer.EXPECT().Draw(mockAnyContext(), FallbackImagePrompt).Return(nil, errors.New("policy")).Once()

	result, err := f.orchestrator.RunTurn(context.Background(), domain.Transcript{domain.UserTurn("owl")})
	require.NoError(t, err)
	assert.Equal(t, "A quiet owl sang.", result.Reply)
	assert.False(t, result.HasAudio())
	assert.False(t, result.HasImage())
}

func TestOrchestratorCancelledTurnIsNotCompleted(t *testing.T) {
	f := newOrchestratorFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f.classify.EXPECT().Complete(mockAnyContext(), mockAnyRequest()).Return("", context.Canceled).Once()
	f.reply.EXPECT().Complete(mockAnyContext(), mockAnyRequest()).Return("", context.Canceled).Once()

	session := NewSession(f.orchestrator)
	result, err := session.Submit(ctx, "a fox in the snow")
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, result.Reply)
	assert.Empty(t, session.Transcript())
	assert.Zero(t, session.Turns())
}

func TestOrchestratorRejectsTranscriptWithoutTrailingUserTurn(t *testing.T) {
	f := newOrchestratorFixture(t)

	_, err := f.orchestrator.RunTurn(context.Background(), domain.Transcript{domain.AssistantTurn("hi")})
	require.ErrorIs(t, err, domain.ErrNoUserTurn)

	_, err = f.orchestrator.RunTurn(context.Background(), nil)
	require.ErrorIs(t, err, domain.ErrNoUserTurn)
}

func TestNewOrchestratorRequiresCollaborators(t *testing.T) {
	_, err := NewOrchestrator(OrchestratorConfig{})
	require.Error(t, err)
	assert.ErrorContains(t, err, "classifier is nil")
}

func TestReplyRequestWindowPolicy(t *testing.T) {
	transcript := domain.Transcript{
		domain.UserTurn("one"),
		domain.AssistantTurn("two"),
		domain.UserTurn("three"),
	}

	story := ReplyRequest(domain.ModeStory, transcript, "three")
	assert.Len(t, story.Turns, 3)
	assert.Nil(t, story.Temperature)

	for _, mode := range []domain.Mode{domain.ModeIdentity, domain.ModeReject} {
		req := ReplyRequest(mode, transcript, "three")
		assert.Equal(t, []domain.Turn{domain.UserTurn("three")}, req.Turns, mode.String())
		assert.Equal(t, domain.BuildDirective(mode).String(), req.Directive)
	}
}

func mockAnyRequest() interface{} {
	return mock.AnythingOfType("ports.CompletionRequest")
}
