package test

import (
	"context"
	"time"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/port"
	"taskapp/pkg/option"
	"taskapp/pkg/test/factory"
)

// RepositoryContractSuite runs the port.TaskRepository behaviours against any adapter.
// Embedders set NewRepo before the suite starts.
type RepositoryContractSuite struct {
	suite.Suite
	NewRepo func() port.TaskRepository
	Repo    port.TaskRepository
}

func (s *RepositoryContractSuite) SetupTest() {
	RegisterTestingT(s.T())

	s.Repo = s.NewRepo()
}

func (s *RepositoryContractSuite) add(title string) domain.Task {
	task, err := s.Repo.Add(context.Background(), factory.NewTask[domain.Task](map[string]any{
		"Title":       title,
		"Description": option.None[string](),
		"IsCompleted": false,
		"DueDate":     option.None[time.Time](),
	}))

	s.Require().NoError(err)

	return task
}

func (s *RepositoryContractSuite) TestListAll_Empty() {
	tasks, err := s.Repo.ListAll(context.Background())

	Expect(err).To(BeNil())
	Expect(tasks).ToNot(BeNil())
	Expect(tasks).To(BeEmpty())
}

func (s *RepositoryContractSuite) TestAdd_AssignsIdentityAndCreatedAt() {
	before := time.Now().UTC().Add(-time.Second)

	first := s.add("Task A")
	second := s.add("Task B")

	Expect(first.ID).To(BeNumerically(">", 0))
	Expect(second.ID).ToNot(Equal(first.ID))
	Expect(first.CreatedAt).To(BeTemporally(">=", before))
	Expect(first.UpdatedAt.IsNone()).To(BeTrue())
}

func (s *RepositoryContractSuite) TestListAll_OrderedById() {
	a := s.add("Task A")
	b := s.add("Task B")
	c := s.add("Task C")

	tasks, err := s.Repo.ListAll(context.Background())

	Expect(err).To(BeNil())
	Expect(tasks).To(HaveLen(3))
	Expect([]int{tasks[0].ID, tasks[1].ID, tasks[2].ID}).To(Equal([]int{a.ID, b.ID, c.ID}))
	Expect(tasks[0].Title).To(Equal("Task A"))
}

func (s *RepositoryContractSuite) TestGetByID() {
	created := s.add("Lookup")

	task, found, err := s.Repo.GetByID(context.Background(), created.ID)

	Expect(err).To(BeNil())
	Expect(found).To(BeTrue())
	Expect(task.ID).To(Equal(created.ID))
	Expect(task.Title).To(Equal("Lookup"))
	Expect(task.CreatedAt.Equal(created.CreatedAt)).To(BeTrue())

	_, found, err = s.Repo.GetByID(context.Background(), created.ID+1000)

	Expect(err).To(BeNil())
	Expect(found).To(BeFalse())
}

func (s *RepositoryContractSuite) TestAdd_PersistsOptionals() {
	due := time.Date(2031, 4, 5, 6, 7, 8, 0, time.UTC)

	created, err := s.Repo.Add(context.Background(), domain.Task{
		Title:       "With optionals",
		Description: option.Some("details"),
		DueDate:     option.Some(due),
	})

	Expect(err).To(BeNil())

	task, found, err := s.Repo.GetByID(context.Background(), created.ID)

	Expect(err).To(BeNil())
	Expect(found).To(BeTrue())
	Expect(task.Description).To(Equal(option.Some("details")))

	stored, ok := task.DueDate.Get()
	Expect(ok).To(BeTrue())
	Expect(stored.Equal(due)).To(BeTrue())
}

func (s *RepositoryContractSuite) TestUpdate_ReplacesFieldsAndStampsUpdatedAt() {
	created, err := s.Repo.Add(context.Background(), domain.Task{
		Title:       "Original",
		Description: option.Some("old"),
		DueDate:     option.Some(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)),
	})
	Expect(err).To(BeNil())

	created.Apply(domain.UpdateFields{
		Title:       "Updated",
		IsCompleted: true,
	})

	updated, err := s.Repo.Update(context.Background(), created)

	Expect(err).To(BeNil())
	Expect(updated).To(BeTrue())

	task, _, err := s.Repo.GetByID(context.Background(), created.ID)

	Expect(err).To(BeNil())
	Expect(task.Title).To(Equal("Updated"))
	Expect(task.IsCompleted).To(BeTrue())
	Expect(task.Description.IsNone()).To(BeTrue())
	Expect(task.DueDate.IsNone()).To(BeTrue())
	Expect(task.CreatedAt.Equal(created.CreatedAt)).To(BeTrue())

	updatedAt, ok := task.UpdatedAt.Get()
	Expect(ok).To(BeTrue())
	Expect(updatedAt).To(BeTemporally(">=", task.CreatedAt))
}

func (s *RepositoryContractSuite) TestUpdate_Missing() {
	updated, err := s.Repo.Update(context.Background(), domain.Task{ID: 4242, Title: "Ghost"})

	Expect(err).To(BeNil())
	Expect(updated).To(BeFalse())
}

func (s *RepositoryContractSuite) TestDeleteByID() {
	created := s.add("Disposable")

	deleted, err := s.Repo.DeleteByID(context.Background(), created.ID)

	Expect(err).To(BeNil())
	Expect(deleted).To(BeTrue())

	_, found, err := s.Repo.GetByID(context.Background(), created.ID)
	Expect(err).To(BeNil())
	Expect(found).To(BeFalse())

	deleted, err = s.Repo.DeleteByID(context.Background(), created.ID)
	Expect(err).To(BeNil())
	Expect(deleted).To(BeFalse())
}

func (s *RepositoryContractSuite) TestIdsAreNotReusedAfterDelete() {
	first := s.add("First")

	_, err := s.Repo.DeleteByID(context.Background(), first.ID)
	Expect(err).To(BeNil())

	second := s.add("Second")

	Expect(second.ID).To(BeNumerically(">", first.ID))
}
