package core

import (
	"bytes"
	"encoding/base64"
	htmltmpl "html/template"
	"io"
	"log"
	"net/http"
	"net/mail"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	texttmpl "text/template"

	"github.com/pkg/errors"

	appfs "github.com/academiadanas/inscripciones/fs"
)

var (
	templates tmplCache
	tmplInit  sync.Once

	// ErrMailNotConfigured is returned when no delivery credential is available.
	ErrMailNotConfigured = errors.New("Servicio de correo no configurado")
)

type (
	tmplCacheEntry map[string]interface{}    // {ext: *Template}
	tmplCache      map[string]tmplCacheEntry // {name: {tmplCacheEntry}}

	Attachment struct {
		Content     *bytes.Buffer
		ContentType string
		Filename    string
	}

	EmailMessage struct {
		To          []mail.Address
		Cc          []mail.Address
		Bcc         []mail.Address
		Subject     string
		BodyStr     string // simple text/plain, non-templated content
		Attachments []Attachment

		// templated contents
		TemplateName string // without ext
		TemplateData interface{}
		TextContent  string
		HTMLContent  string
	}

	ContextData struct {
		FrontendBaseURL string
		Data            interface{}
	}

	// EmailService is any service that can send emails.
	EmailService interface {
		// SendMessages sends messages concurrently; failures are only logged.
		SendMessages(messages ...*EmailMessage)
		// SendMessage renders and sends a single message, reporting delivery failure.
		SendMessage(message *EmailMessage) error
	}
)

func (m *EmailMessage) getContextData() ContextData {
	return ContextData{
		FrontendBaseURL: Conf.FrontendBaseURL,
		Data:            m.TemplateData,
	}
}

func (m *EmailMessage) getTemplate(ext string) (interface{}, bool) {
	cache, ok := templates[m.TemplateName]
	if !ok {
		return nil, ok
	}
	tmplEntry, ok := cache[ext]
	return tmplEntry, ok
}

func (m *EmailMessage) renderText() error {
	if m.BodyStr != "" {
		m.TextContent = m.BodyStr
		return nil
	} else if m.TemplateName == "" {
		return nil
	}

	tmplEntry, ok := m.getTemplate(".txt")
	if !ok {
		return nil
	}
	tmpl, ok := tmplEntry.(*texttmpl.Template)
	if !ok {
		return nil
	}

	var buff bytes.Buffer
	if err := tmpl.Execute(&buff, m.getContextData()); err != nil {
		return err
	}
	m.TextContent = buff.String()
	return nil
}

func (m *EmailMessage) renderHTML() error {
	if m.TemplateName == "" {
		return nil
	}

	tmplEntry, ok := m.getTemplate(".gohtml")
	if !ok {
		return nil
	}
	tmpl, ok := tmplEntry.(*htmltmpl.Template)
	if !ok {
		return nil
	}

	var buff bytes.Buffer
	if err := tmpl.Execute(&buff, m.getContextData()); err != nil {
		return err
	}
	m.HTMLContent = buff.String()
	return nil
}

func (m *EmailMessage) Render() error {
	if m.TemplateName != "" {
		tmplInit.Do(parseTemplates) // only execute once during first request
	}
	if err := m.renderText(); err != nil {
		return err
	}
	return m.renderHTML()
}

func (m *EmailMessage) Attach(r io.Reader, filename string, ct ...string) error {
	at := Attachment{Filename: filename, Content: new(bytes.Buffer)}

	content, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	// base64 encode content
	encoder := base64.NewEncoder(base64.StdEncoding, at.Content)
	if _, err := encoder.Write(content); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}

	if len(ct) > 0 {
		at.ContentType = ct[0]
	} else {
		at.ContentType = http.DetectContentType(content)
	}
	m.Attachments = append(m.Attachments, at)
	return nil
}

func (m *EmailMessage) AttachFile(fpath string, contentType ...string) error {
	f, err := os.Open(fpath)
	if err != nil {
		return err
	}
	defer f.Close()
	return m.Attach(f, filepath.Base(fpath), contentType...)
}

func (m *EmailMessage) HasRecipients() bool  { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool     { return (m.TextContent != "") || (m.HTMLContent != "") }
func (m *EmailMessage) HasAttachments() bool { return len(m.Attachments) > 0 }

func parseTemplates() {
	templates = make(tmplCache)

	rp := "templates/email"
	entries, err := appfs.FS.ReadDir(rp)
	if err != nil {
		log.Printf("core.parseTemplates: %v", err)
		return
	}

	for _, entry := range entries {
		fname := entry.Name()
		ext := filepath.Ext(fname)
		if strings.HasPrefix(fname, "_") || !(ext == ".txt" || ext == ".gohtml") {
			continue
		}
		name := fname[:strings.LastIndex(fname, ".")]
		cacheEntry, ok := templates[name]
		if !ok {
			templates[name] = make(tmplCacheEntry)
			cacheEntry = templates[name]
		}
		if ext == ".txt" {
			tmpl, err := texttmpl.ParseFS(appfs.FS, path.Join(rp, "_base.txt"), path.Join(rp, fname))
			if err != nil {
				log.Printf("core.parseTemplates: %v", err)
				continue
			}
			if Conf.Debug || Conf.TestMode {
				tmpl = tmpl.Option("missingkey=error")
			}
			cacheEntry[ext] = tmpl
		} else {
			tmpl, err := htmltmpl.ParseFS(appfs.FS, path.Join(rp, "_base.gohtml"), path.Join(rp, fname))
			if err != nil {
				log.Printf("core.parseTemplates: %v", err)
				continue
			}
			if Conf.Debug || Conf.TestMode {
				tmpl = tmpl.Option("missingkey=error")
			}
			cacheEntry[ext] = tmpl
		}
	}
}
