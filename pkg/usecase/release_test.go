package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/drydock/pkg/domain/model"
	"github.com/m-mizutani/drydock/pkg/domain/types"
	"github.com/m-mizutani/drydock/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
)

func TestAcquireRelease_CreatesWhenAbsent(t *testing.T) {
	ctx := context.Background()
	host := NewMockReleaseHost()

	record, err := usecase.AcquireRelease(ctx, host, "5.0.3")
	gt.NoError(t, err)
	gt.True(t, record.Created)
	gt.Value(t, record.Tag).Equal("5.0.3")
	gt.Array(t, host.createCalls).Length(1)
}

func TestAcquireRelease_Idempotent(t *testing.T) {
	ctx := context.Background()
	host := NewMockReleaseHost()

	first, err := usecase.AcquireRelease(ctx, host, "5.0.3")
	gt.NoError(t, err)
	second, err := usecase.AcquireRelease(ctx, host, "5.0.3")
	gt.NoError(t, err)

	gt.Value(t, second.ID).Equal(first.ID)
	gt.Value(t, second.UploadURL).Equal(first.UploadURL)
	gt.False(t, second.Created)
	gt.Array(t, host.createCalls).Length(1)
	gt.Array(t, host.findCalls).Length(2)
}

func TestAcquireRelease_ReturnsExisting(t *testing.T) {
	ctx := context.Background()
	host := NewMockReleaseHost()
	host.releases["5.0.3"] = &model.ReleaseRecord{ID: 7, Tag: "5.0.3", UploadURL: "https://uploads.example.com/7"}

	record, err := usecase.AcquireRelease(ctx, host, "5.0.3")
	gt.NoError(t, err)
	gt.Value(t, record.ID).Equal(int64(7))
	gt.Value(t, record.UploadURL).Equal("https://uploads.example.com/7")
	gt.Array(t, host.createCalls).Length(0)
}

func TestAcquireRelease_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("empty tag", func(t *testing.T) {
		host := NewMockReleaseHost()
		_, err := usecase.AcquireRelease(ctx, host, "")
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, types.ErrTagRelease))
		gt.Array(t, host.findCalls).Length(0)
	})

	t.Run("lookup failure", func(t *testing.T) {
		host := NewMockReleaseHost()
		host.findErr = errors.New("503")
		_, err := usecase.AcquireRelease(ctx, host, "5.0.3")
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, types.ErrTagRelease))
		gt.Array(t, host.createCalls).Length(0)
	})

	t.Run("create failure", func(t *testing.T) {
		host := NewMockReleaseHost()
		host.createErr = errors.New("forbidden")
		_, err := usecase.AcquireRelease(ctx, host, "5.0.3")
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, types.ErrTagRelease))
		gt.String(t, err.Error()).Contains("failed to create release")
	})
}
