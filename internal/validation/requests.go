package validation

import "todo-backend/internal/domain"

// Pointer fields distinguish "absent" from a zero value. On update
// requests every field is optional, but a present field must satisfy the
// same rule as on creation.

// CreateTodoRequest is the body of POST /todos.
type CreateTodoRequest struct {
	Title       *string   `json:"title" validate:"required,min=1,max=200"`
	Description *string   `json:"description" validate:"omitnil,min=1,max=1000"`
	Priority    *string   `json:"priority" validate:"omitnil,oneof=low medium high"`
	DueDate     *string   `json:"dueDate" validate:"omitnil,isodate"`
	Tags        *[]string `json:"tags" validate:"omitnil,dive,min=1,max=50"`
}

// ToDomain builds the repository input. userID may be empty.
func (r CreateTodoRequest) ToDomain(userID string) domain.TodoCreate {
	data := domain.TodoCreate{
		UserID:      userID,
		Title:       deref(r.Title),
		Description: deref(r.Description),
		Priority:    domain.Priority(deref(r.Priority)),
		DueDate:     deref(r.DueDate),
	}
	if r.Tags != nil {
		data.Tags = *r.Tags
	}
	return data
}

// UpdateTodoRequest is the body of PUT /todos/{id}.
type UpdateTodoRequest struct {
	Title       *string   `json:"title" validate:"omitnil,min=1,max=200"`
	Description *string   `json:"description" validate:"omitnil,min=1,max=1000"`
	Completed   *bool     `json:"completed"`
	Priority    *string   `json:"priority" validate:"omitnil,oneof=low medium high"`
	DueDate     *string   `json:"dueDate" validate:"omitnil,isodate"`
	Tags        *[]string `json:"tags" validate:"omitnil,dive,min=1,max=50"`
}

// ToDomain converts the request into a sparse change-set.
func (r UpdateTodoRequest) ToDomain() domain.TodoUpdate {
	update := domain.TodoUpdate{
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
		DueDate:     r.DueDate,
		Tags:        r.Tags,
	}
	if r.Priority != nil {
		p := domain.Priority(*r.Priority)
		update.Priority = &p
	}
	return update
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email     *string `json:"email" validate:"required,min=1,email"`
	FirstName *string `json:"firstName" validate:"required,min=1,max=50"`
	LastName  *string `json:"lastName" validate:"required,min=1,max=50"`
	Password  *string `json:"password" validate:"required,min=6,max=100"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    *string `json:"email" validate:"required,min=1,email"`
	Password *string `json:"password" validate:"required,min=1"`
}

// UpdateProfileRequest is the body of PUT /auth/me.
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName" validate:"omitnil,min=1,max=50"`
	LastName  *string `json:"lastName" validate:"omitnil,min=1,max=50"`
	Email     *string `json:"email" validate:"omitnil,email"`
}

// ToDomain converts the request into a sparse change-set.
func (r UpdateProfileRequest) ToDomain() domain.UserUpdate {
	return domain.UserUpdate{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
