package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"github.com/desertthunder/mise/internal/formatter"
	"github.com/desertthunder/mise/internal/models"
	"github.com/desertthunder/mise/internal/planner"
	"github.com/desertthunder/mise/internal/shared"
	"github.com/desertthunder/mise/internal/shopping"
)

//go:embed templates/*.html
var templateFS embed.FS

// itemRows is the number of blank item rows on the meal plan form.
const itemRows = 7

type renderer struct {
	pages map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	funcs := template.FuncMap{
		"qty":  formatter.FormatQuantity,
		"line": formatter.Line,
	}

	r := &renderer{pages: map[string]*template.Template{}}
	for _, name := range []string{"home", "login", "register", "mealplan"} {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// pageData is passed to every template.
type pageData struct {
	Title     string
	User      *models.User
	Error     string
	Email     string
	ReturnURL string

	Recipes   []*models.Recipe
	Plans     []*models.MealPlan
	Names     map[string]string
	Start     models.Date
	End       models.Date
	Shopping  *shopping.List
	MealTypes []models.MealType
	Rows      []int
}

// render executes a page into a buffer first so template errors still produce a clean 500.
func (a *App) render(w http.ResponseWriter, r *http.Request, status int, name string, data *pageData) {
	var buf bytes.Buffer
	if err := a.pages.pages[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		a.logger.Error("failed to render page", "page", name, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// currentUser resolves the signed-in account, or nil for anonymous visitors.
func (a *App) currentUser(r *http.Request) *models.User {
	user, err := a.accounts.CurrentUser(r.Context())
	if err != nil {
		return nil
	}
	return user
}

// redirectToLogin sends anonymous visitors to the login page, remembering where they were going.
func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/login?returnUrl="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
}

func (a *App) homePage(w http.ResponseWriter, r *http.Request) {
	data := &pageData{Title: "Home", User: a.currentUser(r)}

	if data.User != nil {
		recipes, err := a.recipes.List(r.Context(), map[string]any{})
		if err != nil {
			a.logger.Error("failed to list recipes", "err", err)
		}
		data.Recipes = recipes
	}

	a.render(w, r, http.StatusOK, "home", data)
}

func (a *App) loginPage(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, http.StatusOK, "login", &pageData{
		Title:     "Sign in",
		User:      a.currentUser(r),
		ReturnURL: safeReturnURL(r.URL.Query().Get("returnUrl")),
	})
}

func (a *App) loginSubmit(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")
	returnURL := safeReturnURL(r.PostFormValue("returnUrl"))

	if _, err := a.signIn(r.Context(), w, r, email, r.PostFormValue("password")); err != nil {
		msg := "Invalid login attempt."
		switch {
		case errors.Is(err, shared.ErrBanned):
			msg = "This account has been banned."
		case errors.Is(err, shared.ErrTooManyRequests):
			msg = "Too many login attempts. Try again later."
		case StatusFor(err) == http.StatusInternalServerError:
			a.logger.Error("login failed", "err", err)
			msg = "Something went wrong. Try again."
		}

		a.render(w, r, StatusFor(err), "login", &pageData{
			Title:     "Sign in",
			Error:     msg,
			Email:     email,
			ReturnURL: returnURL,
		})
		return
	}

	http.Redirect(w, r, returnURL, http.StatusSeeOther)
}

func (a *App) registerPage(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, http.StatusOK, "register", &pageData{Title: "Register", User: a.currentUser(r)})
}

func (a *App) registerSubmit(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	if password != r.PostFormValue("confirmPassword") {
		a.render(w, r, http.StatusBadRequest, "register", &pageData{
			Title: "Register",
			Error: "Passwords do not match.",
			Email: email,
		})
		return
	}

	user, err := a.accounts.Register(r.Context(), email, r.PostFormValue("displayName"), password)
	if err == nil {
		err = a.sessions.SignIn(w, user.ID)
	}
	if err != nil {
		msg := err.Error()
		if StatusFor(err) == http.StatusInternalServerError {
			a.logger.Error("registration failed", "err", err)
			msg = "Something went wrong. Try again."
		}
		a.render(w, r, StatusFor(err), "register", &pageData{Title: "Register", Error: msg, Email: email})
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *App) logoutSubmit(w http.ResponseWriter, r *http.Request) {
	a.sessions.SignOut(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// weekOf returns the Monday to Sunday week containing d.
func weekOf(d models.Date) (models.Date, models.Date) {
	offset := (int(d.Time().Weekday()) + 6) % 7
	start := d.AddDays(-offset)
	return start, start.AddDays(6)
}

func (a *App) mealPlanData(r *http.Request, user *models.User) (*pageData, error) {
	data := &pageData{
		Title:     "Meal plan",
		User:      user,
		MealTypes: []models.MealType{models.Breakfast, models.Lunch, models.Dinner, models.Snack},
		Rows:      make([]int, itemRows),
	}

	q := r.URL.Query()
	if q.Get("startDate") != "" || q.Get("endDate") != "" {
		start, end, err := parseRange(q)
		if err != nil {
			return nil, err
		}
		data.Start, data.End = start, end
	} else {
		data.Start, data.End = weekOf(models.Today())
	}

	plans, err := a.planner.List(r.Context(), user.ID)
	if err != nil {
		return nil, err
	}
	data.Plans = plans

	recipes, err := a.recipes.List(r.Context(), map[string]any{})
	if err != nil {
		return nil, err
	}
	data.Recipes = recipes
	data.Names = make(map[string]string, len(recipes))
	for _, recipe := range recipes {
		data.Names[recipe.ID] = recipe.Name
	}

	list, err := a.shopping.Generate(r.Context(), user.ID, data.Start, data.End)
	if err != nil {
		return nil, err
	}
	data.Shopping = list

	return data, nil
}

func (a *App) mealPlanPage(w http.ResponseWriter, r *http.Request) {
	user := a.currentUser(r)
	if user == nil {
		redirectToLogin(w, r)
		return
	}

	data, err := a.mealPlanData(r, user)
	if err != nil {
		a.pageError(w, r, user, err)
		return
	}
	a.render(w, r, http.StatusOK, "mealplan", data)
}

func (a *App) mealPlanSubmit(w http.ResponseWriter, r *http.Request) {
	user := a.currentUser(r)
	if user == nil {
		redirectToLogin(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		a.pageError(w, r, user, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err))
		return
	}

	req, err := planFromForm(r.PostForm)
	if err == nil {
		_, err = a.planner.Create(r.Context(), user.ID, req)
	}
	if err != nil {
		a.pageError(w, r, user, err)
		return
	}

	target := url.Values{}
	target.Set("startDate", req.StartDate.String())
	target.Set("endDate", req.EndDate.String())
	http.Redirect(w, r, "/mealplan?"+target.Encode(), http.StatusSeeOther)
}

func (a *App) mealPlanDelete(w http.ResponseWriter, r *http.Request) {
	user := a.currentUser(r)
	if user == nil {
		redirectToLogin(w, r)
		return
	}

	if err := a.planner.Delete(r.Context(), user.ID, r.PathValue("id")); err != nil {
		a.pageError(w, r, user, err)
		return
	}
	http.Redirect(w, r, "/mealplan", http.StatusSeeOther)
}

// pageError re-renders the meal plan page for the current week with an error banner.
func (a *App) pageError(w http.ResponseWriter, r *http.Request, user *models.User, cause error) {
	status := StatusFor(cause)
	msg := cause.Error()
	if status == http.StatusInternalServerError {
		a.logger.Error("meal plan page failed", "err", cause)
		msg = "Something went wrong. Try again."
	}

	fallback := r.Clone(r.Context())
	fallback.URL.RawQuery = ""
	data, err := a.mealPlanData(fallback, user)
	if err != nil {
		a.logger.Error("failed to load meal plan page", "err", err)
		http.Error(w, msg, status)
		return
	}
	data.Error = msg
	a.render(w, r, status, "mealplan", data)
}

// planFromForm reads the meal plan form. Rows without a recipe are ignored.
func planFromForm(form url.Values) (planner.CreateRequest, error) {
	var req planner.CreateRequest

	start, err := models.ParseDate(form.Get("startDate"))
	if err != nil {
		return req, fmt.Errorf("%w: %v", shared.ErrInvalidDate, err)
	}
	end, err := models.ParseDate(form.Get("endDate"))
	if err != nil {
		return req, fmt.Errorf("%w: %v", shared.ErrInvalidDate, err)
	}
	req.StartDate, req.EndDate = start, end

	recipeIDs := form["recipeId"]
	dates := form["date"]
	mealTypes := form["mealType"]

	for i, recipeID := range recipeIDs {
		if recipeID == "" {
			continue
		}
		if i >= len(dates) {
			return req, fmt.Errorf("%w: item %d has no date", shared.ErrInvalidInput, i+1)
		}
		date, err := models.ParseDate(dates[i])
		if err != nil {
			return req, fmt.Errorf("%w: item %d: %v", shared.ErrInvalidDate, i+1, err)
		}

		item := planner.ItemRequest{RecipeID: recipeID, Date: date, MealType: models.Dinner}
		if i < len(mealTypes) && mealTypes[i] != "" {
			item.MealType = models.MealType(mealTypes[i])
		}
		req.Items = append(req.Items, item)
	}

	return req, nil
}

