package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordPollCycle(t *testing.T) {
	before := testutil.ToFloat64(PollCyclesTotal.WithLabelValues("failure"))

	RecordPollCycle(false, 10*time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(PollCyclesTotal.WithLabelValues("failure")))
}

func TestRecordPostsAddedIgnoresEmptyBatches(t *testing.T) {
	before := testutil.ToFloat64(PostsAddedTotal.WithLabelValues("poll"))

	RecordPostsAdded("poll", 0)
	RecordPostsAdded("poll", 3)

	assert.Equal(t, before+3, testutil.ToFloat64(PostsAddedTotal.WithLabelValues("poll")))
}

func TestRecordSubmissionAndFetchError(t *testing.T) {
	submissions := testutil.ToFloat64(SubmissionsTotal.WithLabelValues("duplicate"))
	fetchErrors := testutil.ToFloat64(FetchErrorsTotal.WithLabelValues("transport"))

	RecordSubmission("duplicate")
	RecordFetchError("transport")

	assert.Equal(t, submissions+1, testutil.ToFloat64(SubmissionsTotal.WithLabelValues("duplicate")))
	assert.Equal(t, fetchErrors+1, testutil.ToFloat64(FetchErrorsTotal.WithLabelValues("transport")))
}
