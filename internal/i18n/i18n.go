// Package i18n holds the fr/en message catalog used by templates and flash messages.
package i18n

import (
	"context"
	"strings"
)

type langKey struct{}

// DefaultLang is used when nothing better is known.
const DefaultLang = "fr"

var catalog = map[string]map[string]string{
	"fr": {
		"required":         "Requis",
		"invalid_date":     "Date invalide",
		"invalid_number":   "Nombre invalide",
		"invalid_email":    "Email invalide",
		"invalid_choice":   "Valeur non autorisée",
		"must_be_positive": "Doit être positif",
		"already_taken":    "Déjà utilisé",
		"not_found":        "Introuvable",

		"login_required": "Veuillez vous connecter pour accéder à cette page.",
		"login_failed":   "Échec de connexion. Vérifiez l'identifiant et le mot de passe.",
		"logged_out":     "Vous êtes déconnecté.",
		"form_invalid":   "Le formulaire contient des erreurs.",
		"save_failed":    "Enregistrement impossible.",

		"client_added":          "Client ajouté.",
		"client_updated":        "Client mis à jour.",
		"client_deleted":        "Client supprimé.",
		"client_has_dependents": "Ce client a encore des chantiers, factures ou tickets SAV.",
		"equipment_added":       "Équipement ajouté.",
		"equipment_updated":     "Équipement mis à jour.",
		"quote_added":           "Devis créé.",
		"quote_status_updated":  "Statut du devis mis à jour.",
		"pdf_unavailable":       "La génération PDF est indisponible.",
		"employee_added":        "Employé ajouté.",
		"employee_updated":      "Employé mis à jour.",
		"leave_requested":       "Demande de congé envoyée.",
		"leave_bad_range":       "La date de début ne peut pas être après la date de fin.",
		"leave_status_updated":  "Statut du congé mis à jour.",
		"invalid_status":        "Statut invalide.",
		"candidate_added":       "Candidat ajouté.",
		"candidate_updated":     "Candidat mis à jour.",
		"candidate_not_hired":   "Seul un candidat embauché peut être converti en employé.",
		"chantier_added":        "Chantier créé.",
		"document_added":        "Document ajouté.",
		"document_missing":      "Fichier ou lien requis.",
		"facture_added":         "Facture créée.",
		"pdf_only":              "Seuls les fichiers PDF sont acceptés.",
		"ticket_added":          "Ticket SAV créé.",
		"hebergement_added":     "Hébergement créé.",
		"event_added":           "Événement ajouté.",
		"event_bad_range":       "La fin ne peut pas précéder le début.",
		"user_added":            "Utilisateur créé.",
		"user_updated":          "Utilisateur mis à jour.",
		"user_deleted":          "Utilisateur supprimé.",
		"ceo_protected":         "Le compte CEO ne peut être ni rétrogradé ni supprimé.",
		"user_has_documents":    "Cet utilisateur possède encore des documents.",
		"end_before_start":      "La fin précède le début",
		"file_too_large":        "Fichier trop volumineux",
		"invalid_url":           "Lien invalide.",
		"too_short":             "Trop court",
		"too_long":              "Trop long",

		"out_of_range": "Hors limites",
		"invalid":      "Valeur invalide",
		"forbidden":    "Accès refusé",

		"nav_dashboard":    "Tableau de bord",
		"nav_clients":      "Clients",
		"nav_equipment":    "Équipements",
		"nav_quotes":       "Devis",
		"nav_employees":    "Employés",
		"nav_leaves":       "Congés",
		"nav_candidates":   "Candidats",
		"nav_chantiers":    "Chantiers",
		"nav_factures":     "Factures",
		"nav_sav":          "SAV",
		"nav_hebergements": "Hébergements",
		"nav_planning":     "Planning",
		"nav_users":        "Utilisateurs",
		"login":            "Connexion",
		"logout":           "Déconnexion",
		"username":         "Identifiant",
		"password":         "Mot de passe",
		"save":             "Enregistrer",
		"add":              "Ajouter",
		"edit":             "Modifier",
		"delete":           "Supprimer",
		"export":           "Exporter",
		"actions":          "Actions",
		"status":           "Statut",
		"all":              "Tous",
		"filter":           "Filtrer",
		"alerts":           "Alertes",
		"recent_clients":   "Clients récents",
		"pending_quotes":   "Devis en attente",
		"no_items":         "Aucun élément.",
		"request_leave":    "Demander un congé",
		"convert":          "Convertir en employé",
		"documents":        "Documents",

		"accept":               "Accepter",
		"reject":               "Refuser",
		"approve":              "Approuver",
		"active":               "Actif",
		"inactive":             "Inactif",
		"name":                 "Nom",
		"company":              "Société",
		"email":                "Email",
		"phone":                "Téléphone",
		"address":              "Adresse",
		"notes":                "Notes",
		"last_contact":         "Dernier contact",
		"brand":                "Marque",
		"model":                "Modèle",
		"serial_number":        "Numéro de série",
		"purchase_date":        "Date d'achat",
		"last_maintenance":     "Dernière maintenance",
		"next_maintenance":     "Prochaine maintenance",
		"client":               "Client",
		"number":               "Numéro",
		"service_type":         "Prestation",
		"details":              "Détails",
		"price":                "Prix HT",
		"vat_rate":             "Taux de TVA",
		"total":                "Total TTC",
		"expires_at":           "Expire le",
		"new_quote":            "Nouveau devis",
		"quote":                "Devis",
		"full_name":            "Nom complet",
		"position":             "Poste",
		"hire_date":            "Date d'embauche",
		"salary":               "Salaire",
		"employee":             "Employé",
		"leave_type":           "Type de congé",
		"start_date":           "Date de début",
		"end_date":             "Date de fin",
		"days":                 "Jours",
		"reason":               "Motif",
		"position_applied_for": "Poste visé",
		"application_date":     "Date de candidature",
		"from_candidate":       "Pré-rempli depuis la candidature de",
		"description":          "Description",
		"file":                 "Fichier",
		"url":                  "Lien",
		"amount":               "Montant",
		"due_date":             "Échéance",
		"cost":                 "Coût",
		"title":                "Titre",
		"start":                "Début",
		"end":                  "Fin",
		"show_past":            "Afficher les événements passés",
		"upcoming":             "À venir",
		"role":                 "Rôle",
		"created_at":           "Créé le",
		"password_keep":        "Laisser vide pour conserver",
		"search":               "Rechercher",
		"confirm_delete":       "Confirmer la suppression ?",
	},
	"en": {
		"required":         "Required",
		"invalid_date":     "Invalid date",
		"invalid_number":   "Invalid number",
		"invalid_email":    "Invalid email",
		"invalid_choice":   "Value not allowed",
		"must_be_positive": "Must be positive",
		"already_taken":    "Already taken",
		"not_found":        "Not found",

		"login_required": "Please log in to access this page.",
		"login_failed":   "Login failed. Check username and password.",
		"logged_out":     "You have been logged out.",
		"form_invalid":   "The form contains errors.",
		"save_failed":    "Could not save.",

		"client_added":          "Client added.",
		"client_updated":        "Client updated.",
		"client_deleted":        "Client deleted.",
		"client_has_dependents": "This client still has sites, invoices or support tickets.",
		"equipment_added":       "Equipment added.",
		"equipment_updated":     "Equipment updated.",
		"quote_added":           "Quote created.",
		"quote_status_updated":  "Quote status updated.",
		"pdf_unavailable":       "PDF generation is unavailable.",
		"employee_added":        "Employee added.",
		"employee_updated":      "Employee updated.",
		"leave_requested":       "Leave request submitted.",
		"leave_bad_range":       "Start date cannot be after the end date.",
		"leave_status_updated":  "Leave status updated.",
		"invalid_status":        "Invalid status.",
		"candidate_added":       "Candidate added.",
		"candidate_updated":     "Candidate updated.",
		"candidate_not_hired":   "Only a hired candidate can be converted to an employee.",
		"chantier_added":        "Site created.",
		"document_added":        "Document added.",
		"document_missing":      "A file or a link is required.",
		"facture_added":         "Invoice created.",
		"pdf_only":              "Only PDF files are accepted.",
		"ticket_added":          "Support ticket created.",
		"hebergement_added":     "Lodging created.",
		"event_added":           "Event added.",
		"event_bad_range":       "End cannot be before start.",
		"user_added":            "User created.",
		"user_updated":          "User updated.",
		"user_deleted":          "User deleted.",
		"ceo_protected":         "The CEO account cannot be demoted or deleted.",
		"user_has_documents":    "This user still owns documents.",
		"end_before_start":      "End is before start",
		"file_too_large":        "File too large",
		"invalid_url":           "Invalid link.",
		"too_short":             "Too short",
		"too_long":              "Too long",

		"out_of_range": "Out of range",
		"invalid":      "Invalid value",
		"forbidden":    "Access denied",

		"nav_dashboard":    "Dashboard",
		"nav_clients":      "Clients",
		"nav_equipment":    "Equipment",
		"nav_quotes":       "Quotes",
		"nav_employees":    "Employees",
		"nav_leaves":       "Leaves",
		"nav_candidates":   "Candidates",
		"nav_chantiers":    "Sites",
		"nav_factures":     "Invoices",
		"nav_sav":          "Support",
		"nav_hebergements": "Lodging",
		"nav_planning":     "Planning",
		"nav_users":        "Users",
		"login":            "Log in",
		"logout":           "Log out",
		"username":         "Username",
		"password":         "Password",
		"save":             "Save",
		"add":              "Add",
		"edit":             "Edit",
		"delete":           "Delete",
		"export":           "Export",
		"actions":          "Actions",
		"status":           "Status",
		"all":              "All",
		"filter":           "Filter",
		"alerts":           "Alerts",
		"recent_clients":   "Recent clients",
		"pending_quotes":   "Pending quotes",
		"no_items":         "Nothing here yet.",
		"request_leave":    "Request leave",
		"convert":          "Convert to employee",
		"documents":        "Documents",

		"accept":               "Accept",
		"reject":               "Reject",
		"approve":              "Approve",
		"active":               "Active",
		"inactive":             "Inactive",
		"name":                 "Name",
		"company":              "Company",
		"email":                "Email",
		"phone":                "Phone",
		"address":              "Address",
		"notes":                "Notes",
		"last_contact":         "Last contact",
		"brand":                "Brand",
		"model":                "Model",
		"serial_number":        "Serial number",
		"purchase_date":        "Purchase date",
		"last_maintenance":     "Last maintenance",
		"next_maintenance":     "Next maintenance",
		"client":               "Client",
		"number":               "Number",
		"service_type":         "Service",
		"details":              "Details",
		"price":                "Price (excl. VAT)",
		"vat_rate":             "VAT rate",
		"total":                "Total (incl. VAT)",
		"expires_at":           "Expires on",
		"new_quote":            "New quote",
		"quote":                "Quote",
		"full_name":            "Full name",
		"position":             "Position",
		"hire_date":            "Hire date",
		"salary":               "Salary",
		"employee":             "Employee",
		"leave_type":           "Leave type",
		"start_date":           "Start date",
		"end_date":             "End date",
		"days":                 "Days",
		"reason":               "Reason",
		"position_applied_for": "Position applied for",
		"application_date":     "Application date",
		"from_candidate":       "Pre-filled from the application of",
		"description":          "Description",
		"file":                 "File",
		"url":                  "Link",
		"amount":               "Amount",
		"due_date":             "Due date",
		"cost":                 "Cost",
		"title":                "Title",
		"start":                "Start",
		"end":                  "End",
		"show_past":            "Show past events",
		"upcoming":             "Upcoming",
		"role":                 "Role",
		"created_at":           "Created",
		"password_keep":        "Leave empty to keep",
		"search":               "Search",
		"confirm_delete":       "Delete this item?",
	},
}

// T translates code into lang, falling back to French and then to the code itself.
func T(lang, code string) string {
	if m, ok := catalog[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := catalog[DefaultLang][code]; ok {
		return s
	}
	return code
}

// DetectLanguage picks "en" or "fr" from an Accept-Language header.
func DetectLanguage(header string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	if strings.HasPrefix(h, "en") {
		return "en"
	}
	return DefaultLang
}

// Supported reports whether lang has a catalog.
func Supported(lang string) bool {
	_, ok := catalog[lang]
	return ok
}

// WithLang stores the request language in ctx.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey{}, lang)
}

// LangFrom returns the request language, or DefaultLang.
func LangFrom(ctx context.Context) string {
	if v, ok := ctx.Value(langKey{}).(string); ok && v != "" {
		return v
	}
	return DefaultLang
}
