package notify

import (
	"fmt"

	"github.com/cppla/fotos/models"
)

func PhotoAdded(p models.PhotoRecord) Notification {
	n := New(KindSuccess, "✅ Foto adicionada com sucesso!")
	n.PhotoID = p.ID
	return n
}

func PhotoDeleted(id int64) Notification {
	n := New(KindInfo, "🗑️ Foto eliminada")
	n.PhotoID = id
	return n
}

func ExhibitionScheduled(p models.PhotoRecord) Notification {
	n := New(KindSuccess, "📦 Foto adicionada à exposição!")
	n.PhotoID = p.ID
	return n
}

func ReturnedHome(p models.PhotoRecord) Notification {
	n := New(KindInfo, "🏠 Foto retornou para Casa")
	n.PhotoID = p.ID
	return n
}

// ExhibitionEnded is the one-time warning raised when a period has elapsed.
func ExhibitionEnded(p models.PhotoRecord) Notification {
	period, _ := p.Exhibition()
	n := New(KindWarning, fmt.Sprintf("⚠️ Exposição '%s' terminou em %s", p.Name, period.End.Display()))
	n.PhotoID = p.ID
	return n
}

func ThemeChanged(name string) Notification {
	return New(KindInfo, "🎨 Tema alterado para: "+name)
}

func Exported() Notification { return New(KindSuccess, "📤 Dados exportados com sucesso!") }

func Imported() Notification { return New(KindSuccess, "📥 Dados importados com sucesso!") }

func PDFExported() Notification { return New(KindSuccess, "📄 PDF exportado com sucesso!") }
