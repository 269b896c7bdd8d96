package apihttp

import (
	"html/template"
	"net/http"
)

var indexTpl = template.Must(template.New("index").Parse(indexPage))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = indexTpl.Execute(w, nil)
}

// Single search page. All UI state (query, loading flag, error region,
// result grid, modal) lives in the inline script; the server owns the
// pipeline behind /api/search.
const indexPage = `<!doctype html>
<html lang="en">
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width, initial-scale=1" />
<title>filmgrid</title>
<style>
body{font-family:system-ui,-apple-system,Segoe UI,Roboto;max-width:1100px;margin:0 auto;padding:1rem;background:#101418;color:#e8e8e8}
header{display:flex;gap:12px;align-items:center;margin-bottom:1.2rem}
h1{font-size:1.3rem;margin:0}
form{display:flex;gap:8px;flex:1}
input[type=search]{flex:1;padding:10px 12px;border-radius:8px;border:1px solid #333;background:#1a2027;color:inherit}
button{padding:10px 16px;border-radius:8px;border:0;background:#2f6fed;color:#fff;cursor:pointer}
button:disabled{opacity:.6;cursor:default}
.status{min-height:1.5em;margin-bottom:.8rem}
.status .error{color:#ff7b72}
.status .hint,.status .loading{color:#9aa4af}
.grid{display:grid;grid-template-columns:repeat(auto-fill,minmax(180px,1fr));gap:16px}
.card{background:#1a2027;border:1px solid #2a2f36;border-radius:10px;overflow:hidden;display:flex;flex-direction:column}
.card .poster{width:100%;aspect-ratio:2/3;object-fit:cover;background:#0d1117}
.card .no-poster{width:100%;aspect-ratio:2/3;display:flex;align-items:center;justify-content:center;color:#667;background:#0d1117}
.card .meta{padding:10px;display:flex;flex-direction:column;gap:6px}
.card .title{font-weight:600;text-decoration:none;color:inherit}
.card .title:hover{text-decoration:underline}
.card .row{display:flex;justify-content:space-between;align-items:center}
.badge{background:#2f6fed22;border:1px solid #2f6fed55;border-radius:6px;padding:2px 8px;font-size:.85rem}
.year{color:#9aa4af;font-size:.9rem}
.overlay{position:fixed;inset:0;background:rgba(0,0,0,.7);display:none;align-items:center;justify-content:center;padding:2rem}
.overlay.open{display:flex}
.modal{background:#1a2027;border-radius:10px;width:min(900px,100%);height:min(80vh,100%);display:flex;flex-direction:column;overflow:hidden}
.modal header{margin:0;padding:10px 14px;border-bottom:1px solid #2a2f36;justify-content:space-between}
.modal iframe{flex:1;border:0;width:100%}
.modal .close{background:transparent;color:#9aa4af;font-size:1.1rem}
</style>
<header>
  <h1>filmgrid</h1>
  <form id="searchForm">
    <input id="queryInput" type="search" placeholder="Search movies by title…" autocomplete="off" autofocus />
    <button id="searchButton" type="submit">Search</button>
  </form>
</header>

<div class="status" id="status"><span class="hint">Start searching to see results.</span></div>
<div class="grid" id="grid"></div>

<div class="overlay" id="modalOverlay" role="dialog" aria-modal="true">
  <div class="modal" id="modalContent">
    <header>
      <strong id="modalTitle"></strong>
      <button class="close" id="modalClose" type="button" aria-label="Close">✕</button>
    </header>
    <iframe id="modalFrame" title="Embedded page" referrerpolicy="no-referrer"></iframe>
  </div>
</div>

<script>
(function () {
  'use strict';

  var form = document.getElementById('searchForm');
  var input = document.getElementById('queryInput');
  var button = document.getElementById('searchButton');
  var status = document.getElementById('status');
  var grid = document.getElementById('grid');

  // Request generation counter: a completion belonging to an older
  // search than the latest one submitted is discarded.
  var generation = 0;

  function setStatus(kind, text) {
    status.innerHTML = '';
    if (!kind) return;
    var span = document.createElement('span');
    span.className = kind;
    span.textContent = text;
    status.appendChild(span);
  }

  function renderCard(movie) {
    var card = document.createElement('div');
    card.className = 'card';

    if (movie.poster) {
      var img = document.createElement('img');
      img.className = 'poster';
      img.loading = 'lazy';
      img.alt = movie.title + ' poster';
      img.src = '/api/poster?url=' + encodeURIComponent(movie.poster);
      card.appendChild(img);
    } else {
      var placeholder = document.createElement('div');
      placeholder.className = 'no-poster';
      placeholder.textContent = 'no poster';
      card.appendChild(placeholder);
    }

    var meta = document.createElement('div');
    meta.className = 'meta';

    var link = document.createElement('a');
    link.className = 'title';
    link.textContent = movie.title;
    link.href = movie.pageUrl;
    link.target = '_blank';
    link.rel = 'noopener noreferrer';
    meta.appendChild(link);

    var row = document.createElement('div');
    row.className = 'row';
    var year = document.createElement('span');
    year.className = 'year';
    year.textContent = movie.year;
    var badge = document.createElement('span');
    badge.className = 'badge';
    badge.textContent = '★ ' + movie.rating;
    row.appendChild(year);
    row.appendChild(badge);
    meta.appendChild(row);

    card.appendChild(meta);
    return card;
  }

  function renderResults(items) {
    grid.innerHTML = '';
    items.forEach(function (movie) {
      grid.appendChild(renderCard(movie));
    });
  }

  form.addEventListener('submit', function (event) {
    event.preventDefault();
    var query = input.value.trim();
    if (!query) return; // no request, no state change

    var current = ++generation;
    grid.innerHTML = '';
    setStatus('loading', 'Searching…');
    button.disabled = true;

    fetch('/api/search?q=' + encodeURIComponent(query))
      .then(function (resp) {
        return resp.json().then(function (payload) {
          return { ok: resp.ok, payload: payload };
        });
      })
      .then(function (result) {
        if (current !== generation) return; // stale response
        if (!result.ok) {
          var message = (result.payload && result.payload.error && result.payload.error.message) || 'failed to fetch movies';
          setStatus('error', message);
          return;
        }
        var items = result.payload.items || [];
        if (items.length === 0) {
          setStatus('hint', 'No results.');
          return;
        }
        setStatus(null);
        renderResults(items);
      })
      .catch(function () {
        if (current !== generation) return;
        setStatus('error', 'failed to fetch movies');
      })
      .finally(function () {
        if (current === generation) button.disabled = false;
      });
  });

  // Modal controller. Fully wired (escape key, overlay click, reset on
  // close) and exposed on window.filmgridModal; nothing on the cards
  // invokes it.
  var overlay = document.getElementById('modalOverlay');
  var content = document.getElementById('modalContent');
  var titleEl = document.getElementById('modalTitle');
  var frame = document.getElementById('modalFrame');
  var closeButton = document.getElementById('modalClose');

  function onEscape(event) {
    if (event.key === 'Escape') close();
  }

  function open(url, title) {
    titleEl.textContent = title || 'Movie';
    frame.src = url;
    overlay.classList.add('open');
    document.addEventListener('keydown', onEscape);
  }

  function close() {
    overlay.classList.remove('open');
    titleEl.textContent = '';
    frame.removeAttribute('src');
    document.removeEventListener('keydown', onEscape);
  }

  overlay.addEventListener('click', close);
  content.addEventListener('click', function (event) {
    event.stopPropagation();
  });
  closeButton.addEventListener('click', close);

  window.filmgridModal = { open: open, close: close };
})();
</script>
</html>
`
