package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/castellanoconmh/aula"
	"github.com/castellanoconmh/aula/access"
	"github.com/castellanoconmh/aula/course"
	"github.com/castellanoconmh/aula/http/resp"
	"github.com/castellanoconmh/aula/http/session"
)

// toolBatch is how many codes the toolbox generates at once.
const toolBatch = 5

type adminPage struct {
	Codes   []aula.AccessCode
	Exams   []aula.Exam
	Tab     aula.Collection
	Toolbox aula.Toolbox
	Videos  []aula.Video
}

// getAdmin renders the admin panel: the three lists, their forms and the toolbox.
// The lists are kept current by the page's script, subscribed to getLive.
func (h *Handler) getAdmin(w http.ResponseWriter, r *http.Request) {
	var q tabQuery
	if err := h.parser.ParseQueryParams(r.URL.Query(), &q); err != nil || q.Tab == "" {
		q.Tab = aula.CollectionVideos
	}

	p := adminPage{Tab: q.Tab, Toolbox: h.toolbox()}

	var err error
	if p.Videos, err = h.course.ListVideos(r.Context()); err != nil {
		h.Err(w, r, err)
		return
	}

	if p.Exams, err = h.course.ListExams(r.Context()); err != nil {
		h.Err(w, r, err)
		return
	}

	if p.Codes, err = h.codes.List(r.Context()); err != nil {
		h.Err(w, r, err)
		return
	}

	h.render(w, r, adminTmpl, p)
}

func (h *Handler) postVideo(w http.ResponseWriter, r *http.Request) {
	var f videoForm
	if err := h.parser.ParseForm(r, &f); err != nil {
		h.backToTab(w, r, aula.CollectionVideos, resp.Warn(session.BadInputMsg))
		return
	}

	_, err := h.course.AddVideo(r.Context(), f.Title, f.URL)
	h.backToTab(w, r, aula.CollectionVideos, writeFlash(err))
}

func (h *Handler) postExam(w http.ResponseWriter, r *http.Request) {
	var f examForm
	if err := h.parser.ParseForm(r, &f); err != nil {
		h.backToTab(w, r, aula.CollectionExams, resp.Warn(session.BadInputMsg))
		return
	}

	_, err := h.course.AddExam(r.Context(), f.Title, f.Link)
	h.backToTab(w, r, aula.CollectionExams, writeFlash(err))
}

// postCode generates one code, or count of them.
// Codes minted before a failure are kept.
func (h *Handler) postCode(w http.ResponseWriter, r *http.Request) {
	var f generateForm
	if err := h.parser.ParseForm(r, &f); err != nil {
		h.backToTab(w, r, aula.CollectionAccessCodes, resp.Warn(session.BadInputMsg))
		return
	}

	if f.Count == 0 {
		f.Count = 1
	}

	var last aula.AccessCode
	for i := 0; i < f.Count; i++ {
		ac, err := h.codes.Generate(r.Context())
		if err != nil {
			h.backToTab(w, r, aula.CollectionAccessCodes, writeFlash(err))
			return
		}
		last = ac
	}

	msg := fmt.Sprintf(session.CodeGeneratedMsg, last.Code)
	if f.Count > 1 {
		msg = fmt.Sprintf(session.CodesGeneratedMsg, f.Count)
	}
	h.backToTab(w, r, aula.CollectionAccessCodes, resp.Success(msg))
}

type confirmPage struct {
	Collection aula.Collection
	ID         uint
	Label      string
}

// getConfirmDelete asks the admin to confirm a deletion.
func (h *Handler) getConfirmDelete(w http.ResponseWriter, r *http.Request) {
	c, id, ok := h.target(w, r)
	if !ok {
		return
	}

	label, err := h.label(r, c, id)
	if errors.Is(err, aula.ErrNotFound) {
		h.backToTab(w, r, c, resp.Warn(session.GoneMsg))
		return
	}

	if err != nil {
		h.Err(w, r, err)
		return
	}

	h.render(w, r, confirmTmpl, confirmPage{Collection: c, ID: id, Label: label})
}

// postDelete deletes a record once the form says confirm=yes.
func (h *Handler) postDelete(w http.ResponseWriter, r *http.Request) {
	c, id, ok := h.target(w, r)
	if !ok {
		return
	}

	var f confirmForm
	if err := h.parser.ParseForm(r, &f); err != nil {
		h.backToTab(w, r, c, resp.Warn(session.BadInputMsg))
		return
	}
	confirmed := f.Confirm == "yes"

	var err error
	switch c {
	case aula.CollectionAccessCodes:
		err = h.codes.Delete(r.Context(), id, confirmed)
	case aula.CollectionExams:
		err = h.course.DeleteExam(r.Context(), id, confirmed)
	case aula.CollectionVideos:
		err = h.course.DeleteVideo(r.Context(), id, confirmed)
	}

	switch {
	case errors.Is(err, aula.ErrUnconfirmed):
		h.backToTab(w, r, c, resp.Flash(session.Flash{Type: session.FlashInfo, Msg: session.ConfirmMsg}))
	case errors.Is(err, aula.ErrNotFound):
		h.backToTab(w, r, c, resp.Warn(session.GoneMsg))
	case err != nil:
		h.backToTab(w, r, c, writeFlash(err))
	default:
		h.backToTab(w, r, c, resp.Success(session.DeletedMsg))
	}
}

// toolbox lists the demo shortcuts on environments that allow them.
func (h *Handler) toolbox() aula.Toolbox {
	if !h.env.ToolboxEnabled() {
		return nil
	}

	tool := func(c aula.Collection, title, action string) aula.Tool {
		return aula.Tool{
			Actions:    []aula.ToolAction{{Method: http.MethodPost, Name: action, URL: "/admin/toolbox/" + c.String()}},
			Collection: c,
			Title:      title,
		}
	}

	return aula.Toolbox{
		tool(aula.CollectionVideos, "Videos", "Agregar video de muestra"),
		tool(aula.CollectionExams, "Exámenes", "Agregar examen de muestra"),
		tool(aula.CollectionAccessCodes, "Códigos", fmt.Sprintf("Generar %d códigos", toolBatch)),
	}.Filter()
}

// postTool runs a toolbox shortcut.
func (h *Handler) postTool(w http.ResponseWriter, r *http.Request) {
	c := aula.Collection(mux.Vars(r)["collection"])

	var err error
	switch c {
	case aula.CollectionVideos:
		_, err = h.course.AddVideo(r.Context(), "Video de muestra", "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	case aula.CollectionExams:
		_, err = h.course.AddExam(r.Context(), "Examen de muestra", "https://forms.gle/muestra")
	case aula.CollectionAccessCodes:
		for i := 0; i < toolBatch && err == nil; i++ {
			_, err = h.codes.Generate(r.Context())
		}
	default:
		h.notFound(w, r)
		return
	}

	h.backToTab(w, r, c, writeFlash(err))
}

// target reads the collection and id out of the path.
// It answers the request itself when they name nothing.
func (h *Handler) target(w http.ResponseWriter, r *http.Request) (aula.Collection, uint, bool) {
	vars := mux.Vars(r)
	c := aula.Collection(vars["collection"])
	id, err := strconv.ParseUint(vars["id"], 10, 0)
	if c.Valid() != nil || err != nil || id == 0 {
		h.notFound(w, r)
		return "", 0, false
	}

	return c, uint(id), true
}

// label finds what the admin is about to delete, in words.
func (h *Handler) label(r *http.Request, c aula.Collection, id uint) (string, error) {
	switch c {
	case aula.CollectionAccessCodes:
		codes, err := h.codes.List(r.Context())
		if err != nil {
			return "", err
		}
		for _, ac := range codes {
			if ac.ID == id {
				return ac.Code, nil
			}
		}
	case aula.CollectionExams:
		exams, err := h.course.ListExams(r.Context())
		if err != nil {
			return "", err
		}
		for _, e := range exams {
			if e.ID == id {
				return e.Title, nil
			}
		}
	case aula.CollectionVideos:
		videos, err := h.course.ListVideos(r.Context())
		if err != nil {
			return "", err
		}
		for _, v := range videos {
			if v.ID == id {
				return v.Title, nil
			}
		}
	}

	return "", aula.ErrNotFound
}

// backToTab sends the admin to the panel, on the tab of c.
func (h *Handler) backToTab(w http.ResponseWriter, r *http.Request, c aula.Collection, opts ...resp.Fn) {
	h.redirect(w, r, access.AdminPath, append([]resp.Fn{resp.Param("tab", c.String())}, opts...)...)
}

// writeFlash maps the outcome of an admin change to what the admin reads.
func writeFlash(err error) resp.Fn {
	switch {
	case err == nil:
		return resp.Success(session.SavedMsg)
	case errors.Is(err, aula.ErrNotValid):
		return resp.Warn(session.BadInputMsg)
	case errors.Is(err, course.ErrWrite), errors.Is(err, access.ErrWrite):
		return resp.Flash(session.Flash{Type: session.FlashError, Msg: session.WriteFailedMsg})
	default:
		return resp.GenericErr(err)
	}
}
