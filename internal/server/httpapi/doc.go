/*
Package httpapi serves the secdesk REST API.

# Routes

Everything lives under /api and ends with a slash.

Auth:

	POST   /auth/login/            - token for {username, password, remember_me}
	POST   /auth/logout/           - revoke every token of the caller
	GET    /auth/check/            - {authenticated, user, permissions}
	GET    /auth/permissions/      - capability map
	GET    /auth/profile/          - current user
	PUT    /auth/profile/          - {user, message}
	POST   /auth/change-password/  - {message}
	GET    /auth/users/            - accounts (can_manage_users)
	DELETE /auth/users/{id}/       - remove an account (can_manage_users)

Correspondence:

	GET    /correspondence/                            - paginated list
	POST   /correspondence/                            - create
	POST   /correspondence/parse-filename/             - fields from a file name
	GET    /correspondence/{id}/                       - one letter
	PUT    /correspondence/{id}/                       - replace
	DELETE /correspondence/{id}/                       - delete (can_delete_correspondence)
	GET    /correspondence/{id}/detail-with-relations/ - letter screen in one call
	PATCH  /correspondence/{id}/update-field/          - inline edit {field: value}

Lookups (writes need an administrator):

	/correspondence-types/[{id}/]
	/correspondence-procedures/[{id}/]
	/contacts/[{id}/], GET /contacts/approvers/

Files:

	GET    /attachments/           - paginated, filter ?correspondence=
	POST   /attachments/           - multipart "correspondence" + "file" parts
	DELETE /attachments/{id}/
	POST   /process-msg/           - multipart "file", Outlook .msg intake

# Authentication

Requests carry "Authorization: Token <jwt>". A missing, expired or revoked
token gives 401 {"detail": ...}; a missing capability gives 403.

# Errors

Validation problems come back as 400 with a field map, e.g.
{"subject": ["This field may not be blank."]}; constraint violations as
{"non_field_errors": [...]}; operator-facing failures as {"error": ...};
everything else as {"detail": ...}.

# Collections

Lists accept page, page_size, search, ordering and per-field lookups
(field, field__in, field__gte, field__lte, field__icontains) and answer
with {count, next, previous, results}.
*/
package httpapi
