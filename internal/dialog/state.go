package dialog

// State enumerates the positions of the conversation state machine. The
// dialogue is cyclic: every leaf returns to the main menu or a listing state.
type State string

const (
	StateMainMenu            State = "MAIN_MENU"
	StateViewDepartments     State = "VIEW_DEPARTMENTS"
	StateEditDepartment      State = "EDIT_DEPARTMENT"
	StateEditDepartmentName  State = "EDIT_DEPARTMENT_NAME"
	StateAddDepartment       State = "ADD_DEPARTMENT"
	StateViewEmployees       State = "VIEW_EMPLOYEES"
	StateViewEmployeeDetails State = "VIEW_EMPLOYEE_DETAILS"
	StateEditEmployeeField   State = "EDIT_EMPLOYEE_FIELD"
	StateEditEmployeeName    State = "EDIT_EMPLOYEE_NAME"
	StateEditEmployeeBirth   State = "EDIT_EMPLOYEE_BIRTH"
	StateAddEmployeeStart    State = "ADD_EMPLOYEE_START"
	StateAddEmployeeName     State = "ADD_EMPLOYEE_NAME"
	StateAddEmployeeBirth    State = "ADD_EMPLOYEE_BIRTH"
	StateAddEmployeeTgID     State = "ADD_EMPLOYEE_TG_ID"
	StateConfirmDelete       State = "CONFIRM_DELETE"
)
