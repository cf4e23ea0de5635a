package poll_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/domain"
	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/poll"
	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/port"
	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/schema"
	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/mocks"
)

var testColumns = []string{"Id", "Start time", "Completion time", "Email", "Name", "First Name", "Complaint Description", "Processed"}

func testRow(index int, id, firstName, desc, processed string) port.TableRow {
	return port.TableRow{
		Index:  index,
		Values: []string{id, "2025-03-01T09:00:00Z", "2025-03-01T09:05:00Z", "a@b.c", "A B", firstName, desc, processed},
	}
}

func publishResult(id string) *port.PublishResult {
	return &port.PublishResult{SubmissionID: id, PDFKey: "k.pdf", MetadataKey: "k.json"}
}

func TestPollOnce_SkipsProcessedRows(t *testing.T) {
	for _, marker := range []string{"yes", "Yes", "TRUE", "1", "y", "done", " Done "} {
		source := new(mocks.MockTableSource)
		pub := new(mocks.MockPublisher)

		source.On("Columns", mock.Anything).Return(testColumns, nil)
		source.On("Rows", mock.Anything).Return([]port.TableRow{
			testRow(0, "7", "Ada", "X", marker),
		}, nil)

		engine := poll.NewEngine(source, pub, schema.NewRegistry())
		count, err := engine.PollOnce(context.Background())

		require.NoError(t, err, "marker %q", marker)
		assert.Equal(t, 0, count, "marker %q", marker)
		pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
		source.AssertNotCalled(t, "UpdateRow", mock.Anything, mock.Anything, mock.Anything)
	}
}

func TestPollOnce_ProcessesAndMarksUnprocessedRow(t *testing.T) {
	source := new(mocks.MockTableSource)
	pub := new(mocks.MockPublisher)

	source.On("Columns", mock.Anything).Return(testColumns, nil)
	source.On("Rows", mock.Anything).Return([]port.TableRow{
		testRow(0, "7", "Ada", "Broken handle", ""),
	}, nil)

	var published *domain.Submission
	pub.On("Publish", mock.Anything, mock.AnythingOfType("*domain.Submission")).
		Run(func(args mock.Arguments) {
			published = args.Get(1).(*domain.Submission)
		}).
		Return(publishResult("7"), nil)

	source.On("UpdateRow", mock.Anything, 0, mock.AnythingOfType("[]string")).Return(nil)

	engine := poll.NewEngine(source, pub, schema.NewRegistry())
	count, err := engine.PollOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NotNil(t, published)
	assert.Equal(t, "7", published.ID)
	assert.Equal(t, "table-poll", published.Source)
	assert.Equal(t, "2025-03-01T09:05:00Z", published.Timestamp)
	assert.Equal(t, "Ada", published.Fields["first_name"])
	assert.Equal(t, "Broken handle", published.Fields["complaint_description"])
	// Completion time backfills the date and system columns.
	assert.Equal(t, "2025-03-01T09:05:00Z", published.Fields["date"])
	assert.Equal(t, "2025-03-01T09:05:00Z", published.Fields["submission_timestamp"])
	// System columns never reach the record.
	assert.Equal(t, "", published.Fields["email_address"])

	// The write-back carries the sentinel in the processed column.
	updated := source.Calls[len(source.Calls)-1].Arguments.Get(2).([]string)
	assert.Equal(t, "Yes", updated[7])
}

func TestPollOnce_RowIsolation(t *testing.T) {
	source := new(mocks.MockTableSource)
	pub := new(mocks.MockPublisher)

	source.On("Columns", mock.Anything).Return(testColumns, nil)
	source.On("Rows", mock.Anything).Return([]port.TableRow{
		testRow(0, "1", "A", "first", ""),
		testRow(1, "2", "B", "second", ""),
		testRow(2, "3", "C", "third", ""),
	}, nil)

	pub.On("Publish", mock.Anything, mock.MatchedBy(func(s *domain.Submission) bool { return s.ID == "2" })).
		Return(nil, errors.New("sink unavailable"))
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(s *domain.Submission) bool { return s.ID != "2" })).
		Return(publishResult("x"), nil)

	source.On("UpdateRow", mock.Anything, 0, mock.AnythingOfType("[]string")).Return(nil)
	source.On("UpdateRow", mock.Anything, 2, mock.AnythingOfType("[]string")).Return(nil)

	engine := poll.NewEngine(source, pub, schema.NewRegistry())
	count, err := engine.PollOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	source.AssertNotCalled(t, "UpdateRow", mock.Anything, 1, mock.Anything)
}

func TestPollOnce_WriteBackFailureNotCounted(t *testing.T) {
	source := new(mocks.MockTableSource)
	pub := new(mocks.MockPublisher)

	source.On("Columns", mock.Anything).Return(testColumns, nil)
	source.On("Rows", mock.Anything).Return([]port.TableRow{
		testRow(0, "1", "A", "first", ""),
		testRow(1, "2", "B", "second", ""),
	}, nil)

	pub.On("Publish", mock.Anything, mock.AnythingOfType("*domain.Submission")).
		Return(publishResult("x"), nil)

	source.On("UpdateRow", mock.Anything, 0, mock.AnythingOfType("[]string")).
		Return(errors.New("write conflict"))
	source.On("UpdateRow", mock.Anything, 1, mock.AnythingOfType("[]string")).Return(nil)

	engine := poll.NewEngine(source, pub, schema.NewRegistry())
	count, err := engine.PollOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPollOnce_PadsShortRows(t *testing.T) {
	source := new(mocks.MockTableSource)
	pub := new(mocks.MockPublisher)

	source.On("Columns", mock.Anything).Return(testColumns, nil)
	// Row is shorter than the processed-column index.
	source.On("Rows", mock.Anything).Return([]port.TableRow{
		{Index: 0, Values: []string{"9", "2025-03-01T09:00:00Z", "", "", "", "Ada"}},
	}, nil)

	pub.On("Publish", mock.Anything, mock.AnythingOfType("*domain.Submission")).
		Return(publishResult("9"), nil)

	var updated []string
	source.On("UpdateRow", mock.Anything, 0, mock.AnythingOfType("[]string")).
		Run(func(args mock.Arguments) {
			updated = args.Get(2).([]string)
		}).
		Return(nil)

	engine := poll.NewEngine(source, pub, schema.NewRegistry())
	count, err := engine.PollOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, updated, 8)
	assert.Equal(t, "Yes", updated[7])
	assert.Equal(t, "", updated[6])
}

func TestPollOnce_FallsBackToRowIndexID(t *testing.T) {
	source := new(mocks.MockTableSource)
	pub := new(mocks.MockPublisher)

	cols := []string{"First Name", "Processed"}
	source.On("Columns", mock.Anything).Return(cols, nil)
	source.On("Rows", mock.Anything).Return([]port.TableRow{
		{Index: 4, Values: []string{"Ada", ""}},
	}, nil)

	var published *domain.Submission
	pub.On("Publish", mock.Anything, mock.AnythingOfType("*domain.Submission")).
		Run(func(args mock.Arguments) {
			published = args.Get(1).(*domain.Submission)
		}).
		Return(publishResult("row-4"), nil)
	source.On("UpdateRow", mock.Anything, 4, mock.AnythingOfType("[]string")).Return(nil)

	engine := poll.NewEngine(source, pub, schema.NewRegistry())
	_, err := engine.PollOnce(context.Background())

	require.NoError(t, err)
	require.NotNil(t, published)
	assert.Equal(t, "row-4", published.ID)
}

func TestPollOnce_MissingProcessedColumnIsFatal(t *testing.T) {
	source := new(mocks.MockTableSource)
	pub := new(mocks.MockPublisher)

	source.On("Columns", mock.Anything).Return([]string{"Id", "First Name"}, nil)

	engine := poll.NewEngine(source, pub, schema.NewRegistry())
	count, err := engine.PollOnce(context.Background())

	assert.Equal(t, 0, count)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProcessedColumnNotFound)
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestPollOnce_AlternateProcessedColumnNames(t *testing.T) {
	for _, name := range []string{"Is Processed", "DONE", "  processed "} {
		source := new(mocks.MockTableSource)
		pub := new(mocks.MockPublisher)

		source.On("Columns", mock.Anything).Return([]string{"Id", name}, nil)
		source.On("Rows", mock.Anything).Return([]port.TableRow{
			{Index: 0, Values: []string{"1", "yes"}},
		}, nil)

		engine := poll.NewEngine(source, pub, schema.NewRegistry())
		count, err := engine.PollOnce(context.Background())

		require.NoError(t, err, "column %q", name)
		assert.Equal(t, 0, count)
	}
}

func TestPollOnce_FetchFailureAbortsRun(t *testing.T) {
	source := new(mocks.MockTableSource)
	pub := new(mocks.MockPublisher)

	source.On("Columns", mock.Anything).Return(nil, errors.New("boom"))

	engine := poll.NewEngine(source, pub, schema.NewRegistry())
	_, err := engine.PollOnce(context.Background())
	require.Error(t, err)
}
