package textgen_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/helpity-api/external/textgen"
	"github.com/bitmark-inc/helpity-api/mocks"
)

func TestAugment(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	g := mocks.NewMockGenerator(ctl)
	g.EXPECT().
		Generate(gomock.Any(), "Generate a kind and encouraging description for a help request: walk my dog").
		Return("Could someone share a sunny stroll with a friendly pup?", nil)

	a := textgen.NewAugmenter(g, time.Second)
	assert.Equal(t, "Could someone share a sunny stroll with a friendly pup?", a.Augment(context.Background(), "walk my dog"))
}

func TestAugmentFallsBackOnError(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	inputs := []string{"need groceries picked up", "help me move a sofa", "顧老人家"}
	g := mocks.NewMockGenerator(ctl)
	g.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("", errors.New("quota exceeded")).Times(len(inputs))

	a := textgen.NewAugmenter(g, time.Second)
	for _, raw := range inputs {
		assert.Equal(t, raw, a.Augment(context.Background(), raw))
	}
}

func TestAugmentFallsBackOnEmptyText(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	g := mocks.NewMockGenerator(ctl)
	g.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("", nil)

	a := textgen.NewAugmenter(g, time.Second)
	assert.Equal(t, "need groceries picked up", a.Augment(context.Background(), "need groceries picked up"))
}

func TestAugmentBoundsSlowGenerator(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	g := mocks.NewMockGenerator(ctl)
	g.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		})

	a := textgen.NewAugmenter(g, 10*time.Millisecond)
	assert.Equal(t, "need groceries picked up", a.Augment(context.Background(), "need groceries picked up"))
}

func TestAugmentWithoutGenerator(t *testing.T) {
	a := textgen.NewAugmenter(nil, 0)
	assert.Equal(t, "raw", a.Augment(context.Background(), "raw"))
}
